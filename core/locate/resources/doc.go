/*
Package resources locates fonts and cache folders for an application.

As resource loading may be a time-consuming task, some functions in this
package work in an async/await fashion by returning a promise.
Functions named

	Resolve…(…)

return a resource-specific promise type, which the client calls later to
receive the loaded resource. The call to the promise-function blocks until
loading has completed.

Functions taking a schuko.Configuration will use the global configuration
(see package schuko/gconf) if they are called with a nil configuration.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package resources

import (
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'glyphatlas.resources'.
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.resources")
}

// settings returns conf, or the global configuration if conf is nil.
func settings(conf schuko.Configuration) schuko.Configuration {
	if conf == nil {
		return globalConf{}
	}
	return conf
}

// globalConf forwards to the global configuration.
type globalConf struct{}

func (globalConf) InitDefaults()               {}
func (globalConf) IsSet(key string) bool       { return gconf.IsSet(key) }
func (globalConf) GetString(key string) string { return gconf.GetString(key) }
func (globalConf) GetInt(key string) int       { return gconf.GetInt(key) }
func (globalConf) GetBool(key string) bool     { return gconf.GetBool(key) }
func (globalConf) IsInteractive() bool         { return gconf.IsInteractive() }

var _ schuko.Configuration = globalConf{}
