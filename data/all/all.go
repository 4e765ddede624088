// Package all registers every search and cache driver at once:
//
//	import _ "github.com/ncobase/queryindex/data/all"
//
// Binaries that only talk to one engine can import that driver instead:
//
//	import (
//	    _ "github.com/ncobase/queryindex/data/elasticsearch"
//	    _ "github.com/ncobase/queryindex/data/redis"
//	)
package all

import (
	// Cache drivers
	_ "github.com/ncobase/queryindex/data/redis"

	// Search drivers
	_ "github.com/ncobase/queryindex/data/elasticsearch"
	_ "github.com/ncobase/queryindex/data/memory"
	_ "github.com/ncobase/queryindex/data/opensearch"
)
