// Package upload receives images for the transformation library.
//
// Uploads are two-phase. The browser POSTs the file to the upload handler,
// which streams it into a Store and answers with a temp ID:
//
//	{"temp_id": "7c0e...", "filename": "cat.png", "content_type": "image/png", "size": 48213}
//
// The transformation form then carries the temp ID, and the code saving the
// image calls Claim to take ownership of the file. Unclaimed files are
// removed by Cleanup once they are older than Config.TempExpiry; StartJanitor
// runs Cleanup on a ticker.
//
// # Security
//
// The handler sniffs the first 512 bytes with http.DetectContentType and
// checks the result against Config.AllowedTypes. The part's own
// Content-Type header is ignored. The default configuration accepts PNG,
// JPEG, GIF and WebP images up to 10MB.
//
// # Stores
//
// DiskStore keeps files in a local directory with a JSON sidecar per file.
// S3Store keeps them under a key prefix in an S3 bucket and hands out
// presigned URLs on Claim:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := upload.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "uploads/", 10<<20)
//	r.Post("/upload", upload.Handler(store))
package upload
