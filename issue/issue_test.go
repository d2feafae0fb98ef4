package issue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mago-php/mago-core/source"
)

func TestEveryCodeHasARegistryEntry(t *testing.T) {
	for code := Code(0); code < codeCount; code++ {
		e, ok := registry[code]
		require.True(t, ok, "code %d has no registry entry", code)
		require.NotEmpty(t, e.name, "code %d has an empty name", code)
		require.NotEmpty(t, e.description, "code %q has an empty description", e.name)
	}
}

func TestCodeStringUsesRegistryName(t *testing.T) {
	require.Equal(t, "undefined-class", UndefinedClass.String())
	require.Equal(t, "null-argument", NullArgument.String())
}

func TestNewUsesRegistrySeverity(t *testing.T) {
	sp := source.NewSpan(0, 4, 10)
	iss := New(UndefinedClass, sp, "class `Foo` is undefined")
	require.Equal(t, Error, iss.Severity)
	require.Equal(t, sp, iss.Primary)
}

func TestWithSecondaryAppends(t *testing.T) {
	sp := source.NewSpan(0, 0, 5)
	declSpan := source.NewSpan(0, 20, 30)
	iss := New(UnhandledThrownType, sp, "may throw `RuntimeException`")
	iss = iss.WithSecondary(declSpan, "declared here")

	require.Len(t, iss.Secondary, 1)
	require.Equal(t, declSpan, iss.Secondary[0].Span)
	require.Equal(t, "declared here", iss.Secondary[0].Label)
}

func TestSortKeyOrdersByFileThenOffsetThenCode(t *testing.T) {
	a := New(UndefinedClass, source.NewSpan(0, 10, 20), "").SortKey()
	b := New(UndefinedFunction, source.NewSpan(0, 10, 20), "").SortKey()
	c := New(UndefinedClass, source.NewSpan(0, 5, 9), "").SortKey()
	d := New(UndefinedClass, source.NewSpan(1, 0, 1), "").SortKey()

	require.True(t, c.Less(a))
	require.True(t, a.Less(b) || b.Less(a))
	require.True(t, a.Less(d))
}

func TestCatalogIsValidJSONAndCoversEveryCode(t *testing.T) {
	data, err := Catalog()
	require.NoError(t, err)
	require.Contains(t, string(data), "undefined-class")
	require.Contains(t, string(data), "internal-error")
}

func TestMarshalReportRendersWireFields(t *testing.T) {
	iss := New(NullArgument, source.NewSpan(2, 0, 3), "argument is null").WithFixHint("add a null check")
	data, err := MarshalReport([]Issue{iss})
	require.NoError(t, err)
	require.Contains(t, string(data), `"code": "null-argument"`)
	require.Contains(t, string(data), `"fix_hint": "add a null check"`)
}
