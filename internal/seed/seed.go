// Package seed provides the recipes loaded into the store at startup.
//
// A seed source is either empty (built-in defaults), "none" (start empty),
// a local file path, or an s3://bucket/key URL. Documents are YAML; JSON
// documents parse as well.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pageza/recipebox/backend/internal/types"
)

// SourceNone disables seeding
const SourceNone = "none"

// ObjectReader fetches an object from a bucket
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Document is the on-disk shape of a seed file
type Document struct {
	Recipes []types.CreateRecipeRequest `yaml:"recipes"`
}

// Defaults returns the built-in seed recipes
func Defaults() []types.CreateRecipeRequest {
	return []types.CreateRecipeRequest{
		{Name: "boiled white rice", Ingredients: []string{"1 cup white rice", "2 cups water", "pinch of salt"}},
		{Name: "milkshake", Ingredients: []string{"2 tbsp cocoa", "2 cups vanilla ice cream", "1 cup milk"}},
		{Name: "scrambled eggs", Ingredients: []string{"3 eggs", "1 tbsp butter", "pinch of salt"}},
	}
}

// IsS3 reports whether source points at an S3 object
func IsS3(source string) bool {
	return strings.HasPrefix(source, "s3://")
}

// ParseS3 splits an s3://bucket/key URL
func ParseS3(source string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(source, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !IsS3(source) || !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 seed source %q, want s3://bucket/key", source)
	}
	return bucket, key, nil
}

// Load resolves source into seed requests. objects is only used for
// s3:// sources and may be nil otherwise.
func Load(ctx context.Context, source string, objects ObjectReader) ([]types.CreateRecipeRequest, error) {
	switch {
	case source == "":
		return Defaults(), nil
	case source == SourceNone:
		return []types.CreateRecipeRequest{}, nil
	case IsS3(source):
		bucket, key, err := ParseS3(source)
		if err != nil {
			return nil, err
		}
		if objects == nil {
			return nil, errors.New("S3 seed source configured without an object reader")
		}
		data, err := objects.ReadObject(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed object %s: %w", source, err)
		}
		return Parse(data)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		return Parse(data)
	}
}

// Parse decodes a seed document. Both {recipes: [...]} and a bare list
// are accepted. Unknown keys are an error, so a misspelled top-level key
// cannot silently yield an empty seed.
func Parse(data []byte) ([]types.CreateRecipeRequest, error) {
	var doc Document
	docErr := decodeStrict(data, &doc)
	if docErr == nil {
		if doc.Recipes == nil {
			return nil, errors.New("seed document has no recipes key")
		}
		return doc.Recipes, nil
	}

	var list []types.CreateRecipeRequest
	if err := decodeStrict(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse seed document: %w", docErr)
	}
	if list == nil {
		list = []types.CreateRecipeRequest{}
	}
	return list, nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
