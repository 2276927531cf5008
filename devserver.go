// File: lixenwraith/chain/devserver.go
package chain

import "slices"

// DevServer holds the development server settings
type DevServer struct {
	ChainedMap[*Config, *DevServer]

	AllowedHosts *ChainedSet[*DevServer]
}

// NewDevServer creates the devServer node of parent
func NewDevServer(parent *Config) *DevServer {
	d := &DevServer{}
	d.setup(parent, d)
	d.AllowedHosts = NewSet(d)
	return d
}

// ToConfig flattens the node, listing allowedHosts first
func (d *DevServer) ToConfig() (Record, error) {
	if err := d.Err(); err != nil {
		return nil, err
	}
	doc := assign(Record{{Key: "allowedHosts", Value: d.AllowedHosts.Values()}}, d.record()...)
	return Clean(doc), nil
}

// Merge applies src, appending allowedHosts to the host set
func (d *DevServer) Merge(src map[string]any, omit ...string) *DevServer {
	cm := childMerger{src: src, omit: omit, fail: d.fail}
	cm.list("allowedHosts", func(hosts []any) { d.AllowedHosts.Merge(hosts) })
	return d.ChainedMap.Merge(src, slices.Concat(omit, []string{"allowedHosts"})...)
}

var devServerShorthands = []string{
	"after",
	"before",
	"app",
	"bonjour",
	"client",
	"compress",
	"devMiddleware",
	"headers",
	"historyApiFallback",
	"host",
	"hot",
	"ipc",
	"liveReload",
	"onListening",
	"open",
	"port",
	"proxy",
	"server",
	"setupExitSignals",
	"setupMiddlewares",
	"static",
	"watchFiles",
	"webSocketServer",
}

// Shorthands lists the field names with a dedicated setter
func (d *DevServer) Shorthands() []string {
	return slices.Clone(devServerShorthands)
}

func (d *DevServer) After(v any) *DevServer { return d.Set("after", v) }
func (d *DevServer) Before(v any) *DevServer { return d.Set("before", v) }
func (d *DevServer) App(v any) *DevServer { return d.Set("app", v) }
func (d *DevServer) Bonjour(v any) *DevServer { return d.Set("bonjour", v) }
func (d *DevServer) Client(v any) *DevServer { return d.Set("client", v) }
func (d *DevServer) Compress(v any) *DevServer { return d.Set("compress", v) }
func (d *DevServer) DevMiddleware(v any) *DevServer { return d.Set("devMiddleware", v) }
func (d *DevServer) Headers(v any) *DevServer { return d.Set("headers", v) }
func (d *DevServer) HistoryApiFallback(v any) *DevServer { return d.Set("historyApiFallback", v) }
func (d *DevServer) Host(v any) *DevServer { return d.Set("host", v) }
func (d *DevServer) Hot(v any) *DevServer { return d.Set("hot", v) }
func (d *DevServer) Ipc(v any) *DevServer { return d.Set("ipc", v) }
func (d *DevServer) LiveReload(v any) *DevServer { return d.Set("liveReload", v) }
func (d *DevServer) OnListening(v any) *DevServer { return d.Set("onListening", v) }
func (d *DevServer) Open(v any) *DevServer { return d.Set("open", v) }
func (d *DevServer) Port(v any) *DevServer { return d.Set("port", v) }
func (d *DevServer) Proxy(v any) *DevServer { return d.Set("proxy", v) }
func (d *DevServer) Server(v any) *DevServer { return d.Set("server", v) }
func (d *DevServer) SetupExitSignals(v any) *DevServer { return d.Set("setupExitSignals", v) }
func (d *DevServer) SetupMiddlewares(v any) *DevServer { return d.Set("setupMiddlewares", v) }
func (d *DevServer) Static(v any) *DevServer { return d.Set("static", v) }
func (d *DevServer) WatchFiles(v any) *DevServer { return d.Set("watchFiles", v) }
func (d *DevServer) WebSocketServer(v any) *DevServer { return d.Set("webSocketServer", v) }
