// Package transform describes the image transformations Imaginify offers.
//
// It holds the catalogue of transformation types with their default
// configurations, the aspect ratios generative fill can expand to, and the
// helpers that turn a user's choices into a transformation config and a CDN
// delivery URL:
//
//	cfg, err := transform.BuildConfig(transform.Remove, transform.Input{Prompt: "dog"}, nil)
//	// {"remove": {"prompt": "dog", "removeShadow": true, "multiple": true}}
//
//	u := transform.DeliveryURL("demo", "samples/dog", cfg, "")
//	// https://res.cloudinary.com/demo/image/upload/e_gen_remove:prompt_dog;multiple_true;remove-shadow_true/samples/dog
package transform
