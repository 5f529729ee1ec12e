package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"null", Null(), Null(), true},
		{"bool", Bool(true), Bool(true), true},
		{"bool differs", Bool(true), Bool(false), false},
		{"int", Int(3), Int(3), true},
		{"int float", Int(3), Float(3.0), true},
		{"float fraction", Float(3.5), Int(3), false},
		{"bool is not number", Bool(true), Int(1), false},
		{"string", String("a"), String("a"), true},
		{"string vs number", String("1"), Int(1), false},
		{"null vs bool", Null(), Bool(false), false},
		{"array", Array(Int(1), String("x")), Array(Float(1), String("x")), true},
		{"array order", Array(Int(1), Int(2)), Array(Int(2), Int(1)), false},
		{"object", Object(Record{"a": Int(1)}), Object(Record{"a": Int(1)}), true},
		{"object differs", Object(Record{"a": Int(1)}), Object(Record{"b": Int(1)}), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, tc.a.Equal(tc.b))
			assert.Equal(t, tc.equal, tc.a.Key() == tc.b.Key(), "Key must agree with Equal")
		})
	}
}

func TestKeyIsUnambiguous(t *testing.T) {
	a := Array(String("a,b"))
	b := Array(String("a"), String("b"))
	assert.NotEqual(t, a.Key(), b.Key())

	o1 := Object(Record{"a": String("1:b")})
	o2 := Object(Record{"a:1": String("b")})
	assert.NotEqual(t, o1.Key(), o2.Key())

	assert.NotEqual(t, String("null").Key(), Null().Key())
}

func TestCloneIsDeep(t *testing.T) {
	nested := Record{"list": Array(Int(1), Int(2)), "obj": Object(Record{"k": String("v")})}
	clone := nested.Clone()
	require.True(t, nested.Equal(clone))

	list, _ := clone["list"].AsArray()
	list[0] = Int(100)
	obj, _ := clone["obj"].AsObject()
	obj["k"] = String("changed")

	orig, _ := nested["list"].AsArray()
	assert.Equal(t, Int(1), orig[0])
	origObj, _ := nested["obj"].AsObject()
	assert.Equal(t, String("v"), origObj["k"])
}

func TestMerge(t *testing.T) {
	base := Record{"name": String("me"), "age": Int(3)}
	merged := base.Merge(Record{"age": Int(4), "thing": String("stuff")})

	assert.True(t, merged.Equal(Record{"name": String("me"), "age": Int(4), "thing": String("stuff")}))
	assert.Equal(t, Int(3), base["age"], "merge must not modify the receiver")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Record{"a": Int(1), "b": Array(Null())}.Validate())

	err := Record{"a": Object(Record{"b": {}})}.Validate()
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "a.b", fieldErr.Path)
}

func TestValidateRejectsInvalidUTF8(t *testing.T) {
	bad := string([]byte{'a', 0xff, 'b'})

	var fieldErr *FieldError
	require.ErrorAs(t, Record{"name": String(bad)}.Validate(), &fieldErr)
	assert.Equal(t, "name", fieldErr.Path)

	require.ErrorAs(t, Record{"tags": Array(String("ok"), String(bad))}.Validate(), &fieldErr)
	assert.Equal(t, "tags[1]", fieldErr.Path)

	require.ErrorAs(t, Record{"addr": Object(Record{bad: Int(1)})}.Validate(), &fieldErr)
	assert.Equal(t, "addr."+bad, fieldErr.Path)

	assert.Error(t, Record{bad: Int(1)}.Validate())
	assert.NoError(t, Record{"name": String("héllo 世界")}.Validate())
}

func TestJSONRoundTrip(t *testing.T) {
	input := `{"name":"Alice","good":true,"age":31,"score":2.5,"tags":["a","b"],"addr":{"city":"Paris"},"none":null}`
	rec, err := ParseRecord([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, KindInt, rec["age"].Kind())
	assert.Equal(t, KindFloat, rec["score"].Kind())
	assert.Equal(t, KindNull, rec["none"].Kind())

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))

	var back Record
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, rec.Equal(back))
}

func TestParseRecordRejectsNonObjects(t *testing.T) {
	for _, input := range []string{`"1"`, `123`, `null`, `[1,2]`, `true`} {
		_, err := ParseRecord([]byte(input))
		assert.ErrorIs(t, err, ErrNotRecord, input)
	}
	_, err := ParseRecord([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestParseKeepsIntegersExact(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"big":9007199254740993,"neg":-4,"f":1e3}`))
	require.NoError(t, err)

	assert.Equal(t, Int(9007199254740993), rec["big"])
	assert.Equal(t, Int(-4), rec["neg"])
	assert.Equal(t, KindFloat, rec["f"].Kind())

	_, err = Parse([]byte(`[1, 2`))
	assert.Error(t, err)
	_, err = Parse([]byte(`1 2`))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	rec := Record{"name": String("Bob"), "good": Bool(false), "n": Int(7), "f": Float(0.25), "list": Array(String("x"))}
	out, err := yaml.Marshal(rec)
	require.NoError(t, err)

	var back Record
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, rec.Equal(back), "got %v", back)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{"a": []any{1, "x", nil}, "b": uint8(2)})
	require.NoError(t, err)
	assert.True(t, v.Equal(Object(Record{"a": Array(Int(1), String("x"), Null()), "b": Int(2)})))

	_, err = FromAny(uint64(1) << 63)
	assert.Error(t, err)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)

	_, err = FromAny(map[any]any{1: "x"})
	assert.Error(t, err)

	_, err = RecordFromAny("1")
	assert.ErrorIs(t, err, ErrNotRecord)
	_, err = RecordFromAny(nil)
	assert.ErrorIs(t, err, ErrNotRecord)
}
