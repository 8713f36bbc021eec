package rton

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lawnstrings/pkg/core"
)

const header = "RTON\x01\x00\x00\x00"

func indent(t *testing.T, compact string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Indent(&buf, []byte(compact), "", "  "))
	buf.WriteByte('\n')
	return buf.String()
}

func TestEncode_Layout(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Single Pair",
			input: `{"a":"b"}`,
			want:  header + "\x90\x01a" + "\x90\x01b" + "\xFF" + "DONE",
		},
		{
			name:  "Repeated String Is Referenced",
			input: `{"k":"k"}`,
			want:  header + "\x90\x01k" + "\x91\x00" + "\xFF" + "DONE",
		},
		{
			name:  "UTF8 String",
			input: `{"k":"é!"}`,
			want:  header + "\x90\x01k" + "\x92\x02\x03é!" + "\xFF" + "DONE",
		},
		{
			name:  "Integers",
			input: `{"z":0,"p":300,"n":-1}`,
			want: header +
				"\x90\x01z\x21" +
				"\x90\x01p\x24\xAC\x02" +
				"\x90\x01n\x25\x01" +
				"\xFF" + "DONE",
		},
		{
			name:  "Array And Null",
			input: `{"a":[true,null]}`,
			want:  header + "\x90\x01a" + "\x86\xFD\x02\x01\x84\xFE" + "\xFF" + "DONE",
		},
		{
			name:  "Null Reference Text",
			input: `{"r":"RTID(0)","s":null}`,
			want:  header + "\x90\x01r" + "\x84" + "\x90\x01s" + "\x84" + "\xFF" + "DONE",
		},
		{
			name:  "Nested Object",
			input: `{"o":{}}`,
			want:  header + "\x90\x01o" + "\x85\xFF" + "\xFF" + "DONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, Encode(strings.NewReader(tt.input), &out))
			assert.Equal(t, []byte(tt.want), out.Bytes())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	input := `{"version":1,"objects":[{"aliases":["LawnStringsData"],"objclass":"LawnStringsData",` +
		`"objdata":{"LocStringValues":{"PLANT":"Peashooter","UNICODE":"豌豆","AGAIN":"Peashooter","TAG":"<b>&</b>","UNICODE_AGAIN":"豌豆"}}}],` +
		`"flags":[true,false],"numbers":[0,-5,3000000000,-3000000000,18446744073709551615,1.5,0.0,1e+21],` +
		`"empty":{},"none":[],"ref":null}`
	want := strings.Replace(input, `"ref":null`, `"ref":"RTID(0)"`, 1)

	codec := NewCodec()
	var bin bytes.Buffer
	require.NoError(t, codec.Encode(strings.NewReader(input), &bin))

	encoded := bytes.Clone(bin.Bytes())

	var out bytes.Buffer
	require.NoError(t, codec.Decode(&bin, &out))
	assert.Equal(t, indent(t, want), out.String())

	var again bytes.Buffer
	require.NoError(t, codec.Encode(&out, &again))
	assert.Equal(t, encoded, again.Bytes(), "decoding and encoding again keeps the bytes")
}

func TestDecode_Types(t *testing.T) {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\x81\x01a\x83\x02" + "\x05\x05Sheet" + "\x02\x01" + "\xEF\xBE\xAD\xDE")
	b.WriteString("\x81\x01b\x83\x03" + "\x01\x01S" + "\x03\x03uid")
	b.WriteString("\x81\x01c\x83\x00")
	b.WriteString("\x81\x01d\x84")
	b.WriteString("\x81\x01e\x08\xFF")
	b.WriteString("\x81\x01f\x26\xFF\xFF\xFF\xFF")
	b.WriteString("\x81\x01g\x22\x00\x00\xC0\x3F")
	b.WriteString("\x81\x01h\x23")
	b.WriteString("\x81\x01i\x82\x02\x03é!")
	b.WriteString("\x81\x01j\x10\xFE\xFF")
	b.WriteString("\x81\x01k\x29\x05")
	b.WriteString("\x81\x01l\x42\x00\x00\x00\x00\x00\x00\x00\x40")
	b.WriteString("\x81\x01m\x0B")
	b.WriteString("\xFF" + "DONE")

	var out bytes.Buffer
	require.NoError(t, Decode(strings.NewReader(b.String()), &out))

	want := `{"a":"RTID(1.2.deadbeef@Sheet)","b":"RTID(uid@S)","c":"RTID(0)","d":"RTID(0)",` +
		`"e":-1,"f":4294967295,"g":1.5,"h":0.0,"i":"é!","j":-2,"k":-3,"l":2.0,"m":0}`
	assert.Equal(t, indent(t, want), out.String())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"Short Header", "RT", ErrInvalidHeader},
		{"Wrong Magic", "RTOX\x01\x00\x00\x00\xFFDONE", ErrInvalidHeader},
		{"Unsupported Version", "RTON\x02\x00\x00\x00\xFFDONE", ErrInvalidHeader},
		{"Missing Trailer", header + "\xFFDON", ErrInvalidTrailer},
		{"Truncated String", header + "\x90\x05a", io.ErrUnexpectedEOF},
		{"Truncated Object", header + "\x90\x01a\x90\x01b", io.ErrUnexpectedEOF},
		{"Reference Before Definition", header + "\x91\x00", ErrBadReference},
		{"Unknown Value Type", header + "\x81\x01a\x77", ErrUnknownType},
		{"Unknown RTID Sub Type", header + "\x81\x01a\x83\x09", ErrUnknownType},
		{"Array Without Count", header + "\x81\x01a\x86\x01", ErrUnknownType},
		{"Invalid UTF8 Value", header + "\x81\x01a\x82\x01\x01\xFF\xFFDONE", ErrInvalidString},
		{"Invalid UTF8 Key", header + "\x90\x02\xC3\x28\x84\xFFDONE", ErrInvalidString},
		{"Invalid UTF8 Ascii Value", header + "\x81\x01a\x81\x01\x80\xFFDONE", ErrInvalidString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Decode(strings.NewReader(tt.input), &out)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, out.Len(), "nothing is written on failure")
		})
	}

	t.Run("NaN", func(t *testing.T) {
		err := Decode(strings.NewReader(header+"\x81\x01a\x42\x01\x00\x00\x00\x00\x00\xF8\x7F\xFFDONE"), io.Discard)
		assert.Error(t, err)
	})
}

func TestEncode_Errors(t *testing.T) {
	err := Encode(strings.NewReader(`[1,2]`), io.Discard)
	assert.ErrorIs(t, err, ErrNotObject)

	err = Encode(strings.NewReader(`{"a":`), io.Discard)
	assert.Error(t, err)

	err = Encode(strings.NewReader(``), io.Discard)
	assert.Error(t, err)
}

func TestCodec_Document(t *testing.T) {
	var doc bytes.Buffer
	doc.WriteString(`{"version":1,"objects":[{"objclass":"LawnStringsData","objdata":{"LocStringValues":{"KEY":"Value"}}}]}`)

	var bin bytes.Buffer
	var c core.BinaryCodec = NewCodec()
	require.NoError(t, c.Encode(&doc, &bin))
	assert.True(t, bytes.HasPrefix(bin.Bytes(), []byte(header)))
	assert.True(t, bytes.HasSuffix(bin.Bytes(), []byte("DONE")))

	var out bytes.Buffer
	require.NoError(t, c.Decode(&bin, &out))
	assert.Contains(t, out.String(), `"KEY": "Value"`)
}
