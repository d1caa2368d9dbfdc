// Package factory is a small generic registry that turns configuration
// entries into implementations. An entry names a registered type and carries
// raw settings; the registered constructor decodes the settings with Decode
// and returns the concrete value.
//
//	reg := factory.NewRegistry[metrics.ReportSink]()
//	_ = reg.Register("sqlite", func(conf map[string]any) (metrics.ReportSink, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewSQLiteSink(c.Path)
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": "runs.db"}})
package factory
