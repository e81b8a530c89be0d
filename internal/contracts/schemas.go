package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const baseURL = "https://pg-service.local/schemas/"

var (
	listingSchema      *jsonschema.Schema
	listingPatchSchema *jsonschema.Schema
)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	err := fs.WalkDir(schemaFS, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".json") {
			return err
		}
		data, err := schemaFS.ReadFile(p)
		if err != nil {
			return err
		}
		return compiler.AddResource(baseURL+path.Base(p), bytes.NewReader(data))
	})
	if err != nil {
		panic(fmt.Sprintf("contracts: loading schemas: %v", err))
	}

	listingSchema = compiler.MustCompile(baseURL + "listing.json")
	listingPatchSchema = compiler.MustCompile(baseURL + "listing-patch.json")
}

// ValidateListing checks a complete listing document before it is stored.
func ValidateListing(l *domain.Listing) error {
	return validate(listingSchema, l)
}

// ValidateListingPatch checks the fields of a partial update. Keys are the
// listing's JSON field names.
func ValidateListingPatch(patch map[string]any) error {
	return validate(listingPatchSchema, patch)
}

func validate(schema *jsonschema.Schema, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("contracts: encode document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("contracts: decode document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			loc := leaf.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			return domain.ValidationError("%s: %s", loc, leaf.Message)
		}
		return domain.ValidationError("%v", err)
	}
	return nil
}

func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
