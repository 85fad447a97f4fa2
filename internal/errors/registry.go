package errors

import (
	"sort"
	"sync"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://imaginify.dev/docs/errors/"

var (
	registryMu sync.RWMutex

	// registry maps error codes to their templates.
	registry = map[string]ErrorTemplate{
		// Runtime (E100-E119)
		"E100": {
			Category: CategoryRuntime,
			Message:  "Request failed",
			Detail:   "The request could not be completed.",
			DocURL:   docBase + "E100",
		},
		"E101": {
			Category: CategoryRuntime,
			Message:  "Unknown error",
			Detail:   "A value that is neither an error nor a string was raised.",
			DocURL:   docBase + "E101",
		},

		// Validation (E120-E139)
		"E120": {
			Category: CategoryValidation,
			Message:  "Invalid dimensions",
			Detail:   "Width and height must be positive integers, written as WIDTHxHEIGHT or as separate w and h parameters.",
			DocURL:   docBase + "E120",
		},
		"E121": {
			Category: CategoryValidation,
			Message:  "Invalid merge input",
			Detail:   "Merge inputs must be JSON or YAML documents whose top level is an object.",
			DocURL:   docBase + "E121",
		},
		"E122": {
			Category: CategoryValidation,
			Message:  "Missing query key",
			Detail:   "A query update needs the name of the parameter to set or remove.",
			DocURL:   docBase + "E122",
		},

		// Transform (E140-E159)
		"E140": {
			Category: CategoryTransform,
			Message:  "Unknown transformation type",
			Detail:   "Supported types are restore, removeBackground, fill, remove and recolor.",
			DocURL:   docBase + "E140",
		},
		"E141": {
			Category: CategoryTransform,
			Message:  "Unknown aspect ratio",
			Detail:   "Generative fill supports the 1:1, 3:4 and 9:16 aspect ratios.",
			DocURL:   docBase + "E141",
		},

		// Storage (E160-E179)
		"E160": {
			Category: CategoryStorage,
			Message:  "Resource URL not provided",
			Detail:   "A download needs the URL of the image to fetch.",
			DocURL:   docBase + "E160",
		},
		"E161": {
			Category: CategoryStorage,
			Message:  "Download failed",
			Detail:   "The image could not be fetched from its URL.",
			DocURL:   docBase + "E161",
		},
		"E162": {
			Category: CategoryStorage,
			Message:  "Upload failed",
			Detail:   "The image could not be stored in the library.",
			DocURL:   docBase + "E162",
		},

		// Config (E180-E189)
		"E180": {
			Category: CategoryConfig,
			Message:  "Invalid configuration file",
			Detail:   "imaginify.json could not be parsed.",
			DocURL:   docBase + "E180",
		},
		"E181": {
			Category: CategoryConfig,
			Message:  "Invalid configuration value",
			Detail:   "A configuration value is out of range.",
			DocURL:   docBase + "E181",
		},

		// CLI (E190-E199)
		"E190": {
			Category: CategoryCLI,
			Message:  "Cannot read input file",
			DocURL:   docBase + "E190",
		},
	}
)

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := registry[code]
	return t, ok
}

// Register adds a custom error template to the registry.
func Register(code string, template ErrorTemplate) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[code] = template
}
