package v1beta1_test

import (
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/api/v1beta1"
)

func TestNewTypeMeta(t *testing.T) {
	t.Parallel()

	tm := v1beta1.NewTypeMeta("Policy")

	assert.Equal(t, "scout.jacobcolvin.com/v1beta1", tm.GetAPIVersion())
	assert.Equal(t, "Policy", tm.GetKind())
}

// metaSchema returns an object schema with a string property per name.
func metaSchema(names ...string) *jsonschema.Schema {
	jss := &jsonschema.Schema{Properties: jsonschema.NewProperties()}
	for _, name := range names {
		jss.Properties.Set(name, &jsonschema.Schema{Type: "string"})
	}

	return jss
}

func TestExtendSchemaWithEnums(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kinds []string
	}{
		"global configuration": {
			kinds: []string{"Configuration"},
		},
		"every kind": {
			kinds: []string{"Configuration", "ProjectConfig", "Policy"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			jss := metaSchema("apiVersion", "kind")

			v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, tc.kinds)

			apiVersion, ok := jss.Properties.Get("apiVersion")
			require.True(t, ok)
			require.Len(t, apiVersion.OneOf, 1)
			assert.Equal(t, v1beta1.APIVersion, apiVersion.OneOf[0].Const)

			kind, ok := jss.Properties.Get("kind")
			require.True(t, ok)

			got := make([]any, 0, len(kind.OneOf))
			for _, s := range kind.OneOf {
				assert.Equal(t, "Kind", s.Title)
				got = append(got, s.Const)
			}

			want := make([]any, 0, len(tc.kinds))
			for _, k := range tc.kinds {
				want = append(want, k)
			}

			assert.Equal(t, want, got)
		})
	}
}

func TestExtendSchemaWithEnums_MissingProperty(t *testing.T) {
	t.Parallel()

	tcs := map[string]*jsonschema.Schema{
		"no apiVersion": metaSchema("kind"),
		"no kind":       metaSchema("apiVersion"),
		"no properties": metaSchema(),
	}

	for name, jss := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Panics(t, func() {
				v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, []string{"Policy"})
			})
		})
	}
}
