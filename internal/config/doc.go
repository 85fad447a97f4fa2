// Package config provides configuration for the Imaginify service and CLI.
//
// The configuration is stored in imaginify.json at the project root. Every
// field is optional; missing fields take the defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "10s",
//	    "corsOrigins": ["https://imaginify.dev"],
//	    "rateLimit": { "rps": 10, "burst": 20 }
//	  },
//	  "cloudinary": { "cloudName": "imaginify" },
//	  "download": {
//	    "dir": "downloads",
//	    "timeout": "30s",
//	    "allowedHosts": ["res.cloudinary.com"]
//	  },
//	  "upload": {
//	    "backend": "s3",
//	    "maxFileSize": 10485760,
//	    "tempExpiry": "1h",
//	    "s3": { "bucket": "imaginify-uploads", "prefix": "tmp/", "region": "us-east-1" }
//	  },
//	  "metrics": { "enabled": true, "namespace": "imaginify" },
//	  "log": { "level": "info" }
//	}
//
// # Environment
//
// After the file is read, IMAGINIFY_* variables override it. A .env file
// next to imaginify.json is loaded first; variables already set in the
// process environment win over .env entries.
//
//	IMAGINIFY_HOST            server.host
//	IMAGINIFY_PORT            server.port
//	IMAGINIFY_CORS_ORIGINS    server.corsOrigins (comma separated)
//	IMAGINIFY_RATE_LIMIT_RPS  server.rateLimit.rps
//	IMAGINIFY_CLOUD_NAME      cloudinary.cloudName
//	IMAGINIFY_DOWNLOAD_DIR    download.dir
//	IMAGINIFY_ALLOWED_HOSTS   download.allowedHosts (comma separated)
//	IMAGINIFY_UPLOAD_BACKEND  upload.backend
//	IMAGINIFY_UPLOAD_DIR      upload.dir
//	IMAGINIFY_S3_BUCKET       upload.s3.bucket
//	IMAGINIFY_S3_PREFIX       upload.s3.prefix
//	IMAGINIFY_S3_REGION       upload.s3.region
//	IMAGINIFY_LOG_LEVEL       log.level
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
