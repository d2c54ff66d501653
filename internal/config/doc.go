// Package config provides configuration parsing for vpatch.
//
// The configuration is stored in vpatch.json or vpatch.toml. This package
// handles loading, saving and validating it, and builds the logger the
// rest of the tool writes to.
//
// # Configuration File Structure
//
//	{
//	  "diagnostics": "warn",
//	  "isolateHooks": true,
//	  "log": {
//	    "level": "info",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vpatch"
//	  },
//	  "tracing": {
//	    "enabled": false
//	  },
//	  "server": {
//	    "addr": "localhost:7070",
//	    "readLimit": 1048576,
//	    "writeTimeout": "10s"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.NewLogger(os.Stderr)
package config
