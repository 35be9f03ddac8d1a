package scaffold

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/genconfig"
	"github.com/schemagen/schemagen/pkg/phase"
)

// renderApp renders src/app.go: the chi router bootstrap wiring every
// model's default memstore-backed service/handler/routes plus the
// plugin-contributed health sections, grounded on
// 2lar-b2/backend2/interfaces/http/rest/router.go's Router.Setup (chi
// middleware stack, cors.Handler, /health + /ready handlers).
func (e *Emitter) renderApp(ctx *phase.Context, cfg *genconfig.Config) string {
	models := sortedModelNames(ctx)

	var b strings.Builder
	b.WriteString(`package src

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/schemagen/schemagen/gen/controllers"
	"github.com/schemagen/schemagen/gen/memstore"
	"github.com/schemagen/schemagen/gen/services"
`)
	if cfg.Framework == "plugin-register" {
		b.WriteString("\t\"github.com/schemagen/schemagen/gen/httpkit\"\n")
	}
	b.WriteString("\t\"github.com/schemagen/schemagen/gen/routes\"\n)\n\n")

	b.WriteString(`// App holds the fully wired HTTP handler and the per-model services
// backing it, so tests can reach a service without a database.
type App struct {
	Handler http.Handler
`)
	for _, name := range models {
		fmt.Fprintf(&b, "\t%sService *services.%sService\n", name, name)
	}
	b.WriteString("}\n\n")

	b.WriteString("// NewApp wires every model's default in-memory store into a service,\n")
	b.WriteString("// controllers onto routes, and mounts health/ready/CORS middleware.\n")
	b.WriteString("func NewApp(cfg *Config) *App {\n")
	for _, name := range models {
		fmt.Fprintf(&b, "\t%sSvc := services.New%sService(memstore.New%sMemStore())\n", strings.ToLower(name), name, name)
	}

	b.WriteString("\n\trouter := chi.NewRouter()\n")
	b.WriteString("\trouter.Use(chimiddleware.RealIP)\n")
	b.WriteString("\trouter.Use(RequestID)\n")
	b.WriteString("\trouter.Use(Recoverer)\n")
	b.WriteString("\trouter.Use(RequestLogger)\n")
	b.WriteString("\tif cfg.EnableCORS {\n")
	b.WriteString("\t\trouter.Use(cors.Handler(cors.Options{\n")
	b.WriteString("\t\t\tAllowedOrigins:   cfg.CORSOrigins,\n")
	b.WriteString("\t\t\tAllowedMethods:   []string{\"GET\", \"POST\", \"PATCH\", \"DELETE\", \"OPTIONS\"},\n")
	b.WriteString("\t\t\tAllowedHeaders:   []string{\"Accept\", \"Authorization\", \"Content-Type\", \"X-Request-Id\"},\n")
	b.WriteString("\t\t\tExposedHeaders:   []string{\"X-Request-Id\"},\n")
	b.WriteString("\t\t\tAllowCredentials: true,\n")
	b.WriteString("\t\t\tMaxAge:           300,\n")
	b.WriteString("\t\t}))\n\t}\n\n")

	b.WriteString("\trouter.Get(\"/health\", healthHandler)\n")
	b.WriteString("\trouter.Get(\"/ready\", readyHandler)\n\n")

	if cfg.Framework == "plugin-register" {
		b.WriteString("\ttable := httpkit.NewRouteTable()\n")
		for _, name := range models {
			fmt.Fprintf(&b, "\troutes.Register%sRoutes(table, &controllers.%sDeps{Service: %sSvc})\n", name, name, strings.ToLower(name))
		}
		b.WriteString("\ttable.Mount(router)\n")
	} else {
		for _, name := range models {
			fmt.Fprintf(&b, "\t%sHandler := controllers.New%sHandler(%sSvc)\n", strings.ToLower(name), name, strings.ToLower(name))
			fmt.Fprintf(&b, "\troutes.Register%sRoutes(router, %sHandler)\n", name, strings.ToLower(name))
		}
	}

	b.WriteString("\n\treturn &App{\n\t\tHandler: router,\n")
	for _, name := range models {
		fmt.Fprintf(&b, "\t\t%sService: %sSvc,\n", name, strings.ToLower(name))
	}
	b.WriteString("\t}\n}\n\n")

	b.WriteString(`func healthHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{"status": "healthy"}
`)
	for _, h := range ctx.PluginHealth {
		fmt.Fprintf(&b, "\tbody[%q] = map[string]interface{}{\"status\": %q}\n", h.Name, h.Status)
	}
	b.WriteString(`	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
`)

	return b.String()
}
