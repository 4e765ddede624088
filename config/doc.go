// Package config loads the queryindex configuration with Viper. YAML, JSON
// and TOML files are supported and the file can be watched for changes.
//
// Example YAML:
//
//	app_name: ncobase
//	run_mode: dev
//	logger:
//	  level: 4
//	  format: json
//	  output: stdout
//	observes:
//	  tracer:
//	    endpoint: localhost:4317
//	data:
//	  search:
//	    default_engine: elasticsearch
//	    bulk_size: 1000
//	    elasticsearch:
//	      addresses: ["http://localhost:9200"]
//	  redis:
//	    addr: localhost:6379
//
// Load it with:
//
//	cfg, err := config.LoadConfig("./config.yaml")
package config
