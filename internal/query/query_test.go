package query

import (
	"testing"
	"time"
)

func mustObject(t *testing.T, v any) Value {
	t.Helper()

	obj, err := Object(v)
	if err != nil {
		t.Fatalf("Object() error: %v", err)
	}
	return obj
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 3, 9, 17, 4, 5, 123_000_000, time.FixedZone("JST", 9*60*60))

	tests := []struct {
		name      string
		params    Params
		skipIndex bool
		want      string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:   "plain strings keep order",
			params: Params{{"b", String("2")}, {"a", String("1")}},
			want:   "b=2&a=1",
		},
		{
			name:   "null values are skipped",
			params: Params{{"a", Null()}, {"b", String("x")}, {"c", Value{}}},
			want:   "b=x",
		},
		{
			name:   "space becomes plus",
			params: Params{{"q", String("hello world")}},
			want:   "q=hello+world",
		},
		{
			name:   "readable characters stay literal",
			params: Params{{"range", String("a:b,$c[d]")}},
			want:   "range=a:b,$c[d]",
		},
		{
			name:   "reserved characters are escaped",
			params: Params{{"path", String("/a?b=c&d#e+f")}},
			want:   "path=%2Fa%3Fb%3Dc%26d%23e%2Bf",
		},
		{
			name:   "unreserved marks stay literal",
			params: Params{{"m", String("-_.!~*'()")}},
			want:   "m=-_.!~*'()",
		},
		{
			name:   "utf-8 is percent encoded",
			params: Params{{"name", String("café")}},
			want:   "name=caf%C3%A9",
		},
		{
			name:   "key is encoded too",
			params: Params{{"a b", String("c")}},
			want:   "a+b=c",
		},
		{
			name:   "list with indices",
			params: Params{{"tag", Strings("go", "http")}},
			want:   "tag[0]=go&tag[1]=http",
		},
		{
			name:      "list without indices",
			params:    Params{{"tag", Strings("go", "http")}},
			skipIndex: true,
			want:      "tag=go&tag=http",
		},
		{
			name:   "empty list writes nothing",
			params: Params{{"tag", List()}, {"x", String("1")}},
			want:   "x=1",
		},
		{
			name:   "null inside list is written as null",
			params: Params{{"v", List(String("a"), Null())}},
			want:   "v[0]=a&v[1]=null",
		},
		{
			name:   "time is UTC with milliseconds",
			params: Params{{"since", Time(stamp)}},
			want:   "since=2024-03-09T08:04:05.123Z",
		},
		{
			name:   "nested list is JSON encoded",
			params: Params{{"m", List(Strings("a", "b"))}},
			want:   "m[0]=[%22a%22,%22b%22]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Serialize(tt.params, tt.skipIndex); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerialize_Object(t *testing.T) {
	t.Parallel()

	params := Params{{"filter", mustObject(t, map[string]any{"a": 1, "b": "<x>"})}}

	want := "filter=%7B%22a%22:1,%22b%22:%22%3Cx%3E%22%7D"
	if got := Serialize(params, false); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()

	params := Params{{"lang", String("en")}}

	tests := []struct {
		name   string
		rawURL string
		params Params
		want   string
	}{
		{"adds question mark", "https://example.com/docs", params, "https://example.com/docs?lang=en"},
		{"extends existing query", "https://example.com/docs?v=2", params, "https://example.com/docs?v=2&lang=en"},
		{"trailing question mark", "https://example.com/docs?", params, "https://example.com/docs?lang=en"},
		{"keeps fragment last", "https://example.com/docs#top", params, "https://example.com/docs?lang=en#top"},
		{"nothing to add", "https://example.com/docs", Params{{"x", Null()}}, "https://example.com/docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Append(tt.rawURL, tt.params, false); got != tt.want {
				t.Errorf("Append() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	params, err := FromMap(map[string]any{
		"tags":  []any{"go", "http"},
		"lang":  "en",
		"page":  2,
		"draft": false,
		"skip":  nil,
		"meta":  map[string]any{"k": "v"},
	})
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}

	want := "draft=false&lang=en&meta=%7B%22k%22:%22v%22%7D&page=2&tags[0]=go&tags[1]=http"
	if got := Serialize(params, false); got != want {
		t.Errorf("Serialize(FromMap()) = %q, want %q", got, want)
	}

	if params[4].Key != "skip" || params[4].Value.Kind() != KindNull {
		t.Errorf("expected skip to be null, got %s %s", params[4].Key, params[4].Value.Kind())
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := map[Kind]string{
		KindNull:   "null",
		KindString: "string",
		KindList:   "list",
		KindTime:   "time",
		KindObject: "object",
		Kind(99):   "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
