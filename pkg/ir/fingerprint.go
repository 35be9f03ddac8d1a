package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint returns a stable hash of the schema's content, used as the
// cache key epoch for the analysis cache (spec.md §3.1 ModelAnalysis.
// fingerprint) and embedded in the run Manifest (spec.md §6). Two
// schemas with identical models/fields/enums hash identically whatever
// the order of their models and enums; field order within a model does
// change the hash. This mirrors the approach in pkg/schema.NewSchema but
// walks the DMMF-shaped IR instead of a GraphQL AST.
func (s *ParsedSchema) Fingerprint() string {
	var sb strings.Builder
	names := make([]string, 0, len(s.Models))
	for i := range s.Models {
		names = append(names, s.Models[i].Name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := s.ModelMap[name]
		sb.WriteString(modelFingerprintSegment(m))
	}

	enumNames := make([]string, 0, len(s.Enums))
	for i := range s.Enums {
		enumNames = append(enumNames, s.Enums[i].Name)
	}
	sort.Strings(enumNames)
	for _, name := range enumNames {
		e := s.EnumMap[name]
		sb.WriteString("enum:")
		sb.WriteString(e.Name)
		sb.WriteString("=")
		sb.WriteString(strings.Join(e.Values, ","))
		sb.WriteString(";")
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ModelFingerprint returns a fingerprint over just the slice of IR that
// contributes to a single model's analysis: its own fields plus the
// reverse relations pointing at it (both of which the Analyzer reads).
func (s *ParsedSchema) ModelFingerprint(modelName string) string {
	m, ok := s.ModelMap[modelName]
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(modelFingerprintSegment(m))
	reverse := s.ReverseRelationsFor(modelName)
	for _, f := range reverse {
		sb.WriteString(fmt.Sprintf("rev:%s.%s;", f.Type, f.Name))
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func modelFingerprintSegment(m *ParsedModel) string {
	var sb strings.Builder
	sb.WriteString("model:")
	sb.WriteString(m.Name)
	sb.WriteString("{")
	for _, f := range m.Fields {
		sb.WriteString(f.Name)
		sb.WriteString(":")
		sb.WriteString(string(f.Kind))
		sb.WriteString(":")
		sb.WriteString(f.Type)
		if f.IsRequired {
			sb.WriteString("!")
		}
		if f.IsList {
			sb.WriteString("[]")
		}
		if f.IsID {
			sb.WriteString("#id")
		}
		if f.IsUnique {
			sb.WriteString("#uniq")
		}
		sb.WriteString(",")
	}
	sb.WriteString("}")
	return sb.String()
}
