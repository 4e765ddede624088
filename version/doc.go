// Package version exposes build metadata set with -ldflags:
//
//	go build -ldflags "-X github.com/ncobase/queryindex/version.Version=v1.2.0 \
//	  -X github.com/ncobase/queryindex/version.Branch=main"
package version
