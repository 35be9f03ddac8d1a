// Package layout implements the single `pathFor(kind, model)` function
// every emitter calls to compute where its output belongs, so that what
// would otherwise be an implicit cross-file convention (a controller
// importing a validator because everyone agrees on a directory name)
// becomes one explicit, testable mapping.
package layout

import "fmt"

// Kind identifies a category of generated file.
type Kind int

const (
	KindConfig Kind = iota
	KindLogger
	KindRequestLogger
	KindMiddleware
	KindTypesDecl
	KindApp
	KindServer
	KindDB
	KindContract
	KindValidator
	KindService
	KindController
	KindRoute
	KindSDKClient
	KindSDKCoreQuery
	KindSDKFrameworkHook
	KindOpenAPISpec
	KindAPIDocsHTML
	KindControllerHelpers
	KindAPIErrors
	KindHTTPKit
	KindReqCtx
	KindTest
	KindTestSetup
	KindCIWorkflow
	KindDockerfile
	KindDockerCompose
	KindEnvExample
	KindAdminHint
	KindMemStore
)

// Ext is the extension policy for generated source files. The teacher's
// TypeScript-target output used ".ts"; this generator targets Go, so the
// default layout uses ".go" for all scaffold/gen source kinds while
// leaving data files (openapi.json, Dockerfile, .env.example) untouched.
const defaultExt = "go"

// Layout resolves Kind + model name to a FileMap path. Its only
// configuration surface is the module-suffix policy (whether intra-
// project imports written by emitters should carry a trailing ".ext"),
// which callers read via SuffixPolicy and apply when rendering import
// statements — Layout itself does not render import strings.
type Layout struct {
	ext           string
	moduleSuffix  bool
	hookFramework string
}

// New builds a Layout. ext defaults to "go" when empty. moduleSuffix
// governs whether rendered intra-project import paths carry the
// extension, per spec.md §6's "single module-suffix setting".
func New(ext string, moduleSuffix bool, hookFramework string) *Layout {
	if ext == "" {
		ext = defaultExt
	}
	return &Layout{ext: ext, moduleSuffix: moduleSuffix, hookFramework: hookFramework}
}

// Ext returns the configured source extension.
func (l *Layout) Ext() string { return l.ext }

// ModuleSuffix reports whether intra-project import references should
// carry a trailing ".ext".
func (l *Layout) ModuleSuffix() bool { return l.moduleSuffix }

// PathFor computes the FileMap path for kind, optionally scoped to
// modelNameLower (pass "" for kinds that are not per-model).
func (l *Layout) PathFor(kind Kind, modelNameLower string) string {
	switch kind {
	case KindConfig:
		return l.srcPath("config")
	case KindLogger:
		return l.srcPath("logger")
	case KindRequestLogger:
		return l.srcPath("request-logger")
	case KindMiddleware:
		return l.srcPath("middleware")
	case KindTypesDecl:
		return l.srcPath("types")
	case KindApp:
		return l.srcPath("app")
	case KindServer:
		return l.srcPath("server")
	case KindDB:
		return l.srcPath("db")
	case KindContract:
		return l.genModelPath("contracts", modelNameLower)
	case KindValidator:
		return l.genModelPath("validators", modelNameLower)
	case KindService:
		return l.genModelPath("services", modelNameLower)
	case KindController:
		return l.genModelPath("controllers", modelNameLower)
	case KindRoute:
		return l.genModelPath("routes", modelNameLower)
	case KindControllerHelpers:
		return fmt.Sprintf("gen/controllers/helpers.%s", l.ext)
	case KindAPIErrors:
		return fmt.Sprintf("gen/apierrors/apierrors.%s", l.ext)
	case KindHTTPKit:
		return fmt.Sprintf("gen/httpkit/httpkit.%s", l.ext)
	case KindReqCtx:
		return fmt.Sprintf("gen/reqctx/reqctx.%s", l.ext)
	case KindSDKClient:
		return fmt.Sprintf("gen/sdk/clients/%s.%s", modelNameLower, l.ext)
	case KindSDKCoreQuery:
		return fmt.Sprintf("gen/sdk/core/queries/%s.%s", modelNameLower, l.ext)
	case KindSDKFrameworkHook:
		return fmt.Sprintf("gen/sdk/%s/%s.%s", l.hookFramework, modelNameLower, l.ext)
	case KindOpenAPISpec:
		return "gen/openapi.json"
	case KindAPIDocsHTML:
		return "gen/api-docs.html"
	case KindTest:
		return fmt.Sprintf("tests/%s_test.%s", modelNameLower, l.ext)
	case KindTestSetup:
		return fmt.Sprintf("tests/setup.%s", l.ext)
	case KindCIWorkflow:
		// FileMap paths must match the path grammar (^[a-z0-9]...), which
		// rejects a leading dot; the Writer is responsible for restoring
		// the conventional ".github/workflows/ci.yml" dotted path on disk.
		return "github/workflows/ci.yml"
	case KindDockerfile:
		return "dockerfile"
	case KindDockerCompose:
		return "docker-compose.yml"
	case KindEnvExample:
		return "env.example"
	case KindAdminHint:
		return fmt.Sprintf("gen/admin/%s.json", modelNameLower)
	case KindMemStore:
		return l.genModelPath("memstore", modelNameLower)
	default:
		panic(fmt.Sprintf("layout: unknown kind %d", kind))
	}
}

func (l *Layout) srcPath(name string) string {
	return fmt.Sprintf("src/%s.%s", name, l.ext)
}

func (l *Layout) genModelPath(dir, modelNameLower string) string {
	return fmt.Sprintf("gen/%s/%s.%s", dir, modelNameLower, l.ext)
}

// ImportRef renders an intra-project import reference to kind/model,
// applying the module-suffix policy. rootImportPath is the module's own
// import path prefix (e.g. "github.com/acme/myapi/gen/services").
func (l *Layout) ImportRef(rootImportPath string, kind Kind, modelNameLower string) string {
	path := l.PathFor(kind, modelNameLower)
	if l.moduleSuffix {
		return fmt.Sprintf("%s/%s", rootImportPath, path)
	}
	return fmt.Sprintf("%s/%s", rootImportPath, trimExt(path, l.ext))
}

func trimExt(path, ext string) string {
	suffix := "." + ext
	if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
		return path[:len(path)-len(suffix)]
	}
	return path
}
