// Package server is the Imaginify HTTP service.
//
// It mounts the image helpers behind a chi router:
//
//	GET  /healthz                             liveness
//	GET  /metrics                             Prometheus metrics
//	GET  /shimmer/{w}x{h}                     shimmer placeholder SVG
//	GET  /api/shimmer?w=&h=                   shimmer data URL
//	POST /api/merge                           deep merge two objects
//	GET  /api/query/form                      set one query parameter
//	GET  /api/query/remove                    remove query parameters
//	GET  /api/transformations                 transformation catalogue
//	GET  /api/transformations/{type}          one catalogue entry
//	GET  /api/transformations/{type}/size     transformed image size
//	POST /api/transformations/{type}/config   merged config and delivery URL
//	GET  /api/aspect-ratios                   generative fill ratios
//	GET  /download?url=&name=                 image download as attachment
//	POST /upload                              image upload
//	GET  /ws/toasts                           toast notifications
//
// Errors are answered with the JSON form of internal/errors.Error.
//
// # Usage
//
//	srv, err := server.New(cfg, server.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx) // returns after ctx is cancelled and requests drain
package server
