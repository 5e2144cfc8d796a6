package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_PreservesKeyOrder(t *testing.T) {
	doc := `{"zeta":1,"alpha":{"b":true,"a":null},"mid":[1,"x"]}`

	v, err := ParseValue([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

	nested, ok := v.Field("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, nested.Keys())
}

func TestParseValue_RoundTripIsByteIdentical(t *testing.T) {
	doc := `{"name":"web","tags":{"Env":"prod","Team":"infra"},"ports":[80,443],"count":3,"pi":3.14,"on":true,"gone":null}`

	v, err := ParseValue([]byte(doc))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, doc, string(out))

	again, err := ParseValue(out)
	require.NoError(t, err)
	out2, err := again.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

func TestParseValue_Errors(t *testing.T) {
	for _, doc := range []string{"", "{", `{"a":}`} {
		_, err := ParseValue([]byte(doc))
		assert.Error(t, err, "input %q", doc)
	}
}

func TestParseValue_NumberFidelity(t *testing.T) {
	// Large ids must survive without float rounding.
	doc := `{"account":123456789012345678}`
	v, err := ParseValue([]byte(doc))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, doc, string(out))
}

func TestValue_Equal(t *testing.T) {
	t.Run("numbers compare numerically", func(t *testing.T) {
		assert.True(t, IntVal(1).Equal(FloatVal(1.0)))
		assert.True(t, NumberVal(json.Number("3.0")).Equal(IntVal(3)))
		assert.False(t, IntVal(1).Equal(IntVal(2)))
	})

	t.Run("integers beyond float64 precision stay distinct", func(t *testing.T) {
		a := NumberVal(json.Number("9007199254740993"))
		b := NumberVal(json.Number("9007199254740992"))
		assert.False(t, a.Equal(b))
		assert.True(t, a.Equal(NumberVal(json.Number("9007199254740993"))))
	})

	t.Run("large integer and its decimal spelling", func(t *testing.T) {
		assert.True(t, IntVal(42).Equal(NumberVal(json.Number("42.0"))))
	})

	t.Run("number never equals string", func(t *testing.T) {
		assert.False(t, IntVal(1).Equal(StringVal("1")))
		assert.False(t, StringVal("1").Equal(IntVal(1)))
	})

	t.Run("object key order is irrelevant", func(t *testing.T) {
		a := ObjectVal(Field{"x", IntVal(1)}, Field{"y", IntVal(2)})
		b := ObjectVal(Field{"y", IntVal(2)}, Field{"x", IntVal(1)})
		assert.True(t, a.Equal(b))
	})

	t.Run("list order matters", func(t *testing.T) {
		a := ListVal(IntVal(1), IntVal(2))
		b := ListVal(IntVal(2), IntVal(1))
		assert.False(t, a.Equal(b))
		assert.True(t, a.Equal(ListVal(IntVal(1), IntVal(2))))
	})

	t.Run("null and kind mismatches", func(t *testing.T) {
		assert.True(t, NullVal().Equal(NullVal()))
		assert.False(t, NullVal().Equal(BoolVal(false)))
		assert.False(t, StringVal("").Equal(NullVal()))
	})
}

func TestObjectVal_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	v := ObjectVal(
		Field{"a", IntVal(1)},
		Field{"b", IntVal(2)},
		Field{"a", IntVal(3)},
	)

	assert.Equal(t, []string{"a", "b"}, v.Keys())
	got, ok := v.Field("a")
	require.True(t, ok)
	assert.True(t, got.Equal(IntVal(3)))
}

func TestFromGo_SortsMapKeys(t *testing.T) {
	v := FromGo(map[string]any{
		"zeta":  1,
		"alpha": "x",
		"mid":   []any{true, nil},
	})

	require.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, v.Keys())

	list, ok := v.Field("mid")
	require.True(t, ok)
	require.Equal(t, 2, list.Len())
	assert.Equal(t, KindBool, list.Index(0).Kind())
	assert.Equal(t, KindNull, list.Index(1).Kind())
}

func TestValue_Interface(t *testing.T) {
	v, err := ParseValue([]byte(`{"n":1,"s":"x","l":[true]}`))
	require.NoError(t, err)

	got := v.Interface()
	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), m["n"])
	assert.Equal(t, "x", m["s"])
	assert.Equal(t, []any{true}, m["l"])
}
