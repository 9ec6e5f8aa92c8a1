// Package placeholder finds and expands {name} variables in seed templates.
//
// Templates let one configuration file describe seeds for several hosts:
//
//	vars:
//	  host: docs.example.com
//	seeds:
//	  - url: "https://{host}/guide/"
//
// Variables reports the names a template refers to, and Expand substitutes
// them.
package placeholder
