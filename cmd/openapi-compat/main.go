// Package main checks a revised OpenAPI document against a baseline for
// changes that would break deployed API clients.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

// operation captures the client-visible contract of one path+method pair.
type operation struct {
	responses      map[string]struct{}
	requiredParams map[string]struct{}
}

type apiDoc struct {
	paths map[string]map[string]operation
}

func main() {
	basePath := flag.String("base", "", "baseline OpenAPI document (json or yaml)")
	revisionPath := flag.String("revision", "docs/swagger.yaml", "revised OpenAPI document")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := loadDoc(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load baseline: %v\n", err)
		os.Exit(1)
	}
	revision, err := loadDoc(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision: %v\n", err)
		os.Exit(1)
	}

	breaks := diff(base, revision)
	if len(breaks) > 0 {
		fmt.Fprintln(os.Stderr, "breaking API changes detected:")
		for _, b := range breaks {
			fmt.Fprintf(os.Stderr, "- %s\n", b)
		}
		os.Exit(1)
	}

	fmt.Println("API contract is backward compatible")
}

func loadDoc(path string) (apiDoc, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return apiDoc{}, err
	}

	doc := map[string]interface{}{}
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(raw, &doc)
	} else {
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return apiDoc{}, err
	}

	pathsMap, ok := toMap(doc["paths"])
	if !ok {
		return apiDoc{}, errors.New("document has no paths object")
	}

	out := apiDoc{paths: make(map[string]map[string]operation)}
	for route, entry := range pathsMap {
		opsMap, ok := toMap(entry)
		if !ok {
			continue
		}

		ops := make(map[string]operation)
		for method, body := range opsMap {
			method = strings.ToLower(strings.TrimSpace(method))
			if _, known := httpMethods[method]; !known {
				continue
			}
			bodyMap, ok := toMap(body)
			if !ok {
				continue
			}
			ops[method] = parseOperation(bodyMap)
		}
		if len(ops) > 0 {
			out.paths[route] = ops
		}
	}
	return out, nil
}

func parseOperation(body map[string]interface{}) operation {
	op := operation{
		responses:      make(map[string]struct{}),
		requiredParams: make(map[string]struct{}),
	}

	if responsesMap, ok := toMap(body["responses"]); ok {
		for code := range responsesMap {
			code = strings.ToLower(strings.TrimSpace(code))
			if code != "" {
				op.responses[code] = struct{}{}
			}
		}
	}

	if paramsList, ok := body["parameters"].([]interface{}); ok {
		for _, p := range paramsList {
			paramMap, ok := toMap(p)
			if !ok {
				continue
			}
			required, _ := paramMap["required"].(bool)
			name, _ := paramMap["name"].(string)
			if required && name != "" {
				op.requiredParams[name] = struct{}{}
			}
		}
	}

	return op
}

func toMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// diff reports contract regressions: anything a deployed client could
// depend on that the revision no longer provides, plus inputs the revision
// newly demands.
func diff(base, revision apiDoc) []string {
	var breaks []string

	for route, baseOps := range base.paths {
		revOps, ok := revision.paths[route]
		if !ok {
			breaks = append(breaks, "removed path: "+route)
			continue
		}

		for method, baseOp := range baseOps {
			revOp, ok := revOps[method]
			if !ok {
				breaks = append(breaks, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), route))
				continue
			}

			for code := range baseOp.responses {
				if _, ok := revOp.responses[code]; !ok {
					breaks = append(breaks, fmt.Sprintf(
						"removed response code: %s %s -> %s",
						strings.ToUpper(method), route, strings.ToUpper(code)))
				}
			}

			for name := range revOp.requiredParams {
				if _, ok := baseOp.requiredParams[name]; !ok {
					breaks = append(breaks, fmt.Sprintf(
						"newly required parameter: %s %s -> %s",
						strings.ToUpper(method), route, name))
				}
			}
		}
	}

	slices.Sort(breaks)
	return breaks
}
