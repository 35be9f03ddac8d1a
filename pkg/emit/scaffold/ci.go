package scaffold

import (
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/phase"
)

// renderCIWorkflow renders .github/workflows/ci.yml for the generated
// project: go vet + go test on push/PR. No CI workflow exists anywhere in
// the example pack to ground this on; it follows the ordinary
// actions/setup-go + go test convention every Go repo in the wild uses.
func renderCIWorkflow() string {
	return `name: ci

on:
  push:
  pull_request:

jobs:
  test:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version-file: go.mod
      - run: go vet ./...
      - run: go test ./...
`
}

// renderDockerfile renders a multi-stage Dockerfile for the generated
// project's server binary. No Dockerfile exists in the example pack; this
// follows the standard Go multi-stage build/scratch-copy pattern.
func renderDockerfile() string {
	return `FROM golang:1.25 AS build
WORKDIR /src
COPY go.mod go.sum ./
RUN go mod download
COPY . .
RUN CGO_ENABLED=0 go build -o /out/server ./cmd/server

FROM gcr.io/distroless/static-debian12
COPY --from=build /out/server /server
EXPOSE 8080
ENTRYPOINT ["/server"]
`
}

// renderDockerCompose renders docker-compose.yml: the server plus a
// Postgres instance for DATABASE_URL.
func renderDockerCompose() string {
	return `services:
  server:
    build: .
    ports:
      - "8080:8080"
    environment:
      DATABASE_URL: postgres://app:app@db:5432/app?sslmode=disable
    depends_on:
      - db
  db:
    image: postgres:16
    environment:
      POSTGRES_USER: app
      POSTGRES_PASSWORD: app
      POSTGRES_DB: app
    ports:
      - "5432:5432"
`
}

// renderEnvExample renders .env.example documenting every static config
// var config.go reads, plus every env var a plugin declared via
// ctx.PluginEnvVars.
func (e *Emitter) renderEnvExample(ctx *phase.Context) string {
	var b strings.Builder
	b.WriteString(`SERVER_ADDRESS=:8080
ENVIRONMENT=development
LOG_LEVEL=info
DATABASE_URL=postgres://localhost:5432/app
CORS_ORIGINS=http://localhost:3000
`)
	for _, name := range sortedEnvVars(ctx.PluginEnvVars) {
		fmt.Fprintf(&b, "%s=%s\n", name, ctx.PluginEnvVars[name])
	}
	if deps := sortedDeps(ctx.PluginDeps); len(deps) > 0 {
		b.WriteString("\n# plugin dependencies (see go.mod):\n")
		for _, name := range deps {
			fmt.Fprintf(&b, "#   %s %s\n", name, ctx.PluginDeps[name])
		}
	}
	return b.String()
}
