package core_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lawnstrings/pkg/adapters/jsonfmt"
	"github.com/aretw0/lawnstrings/pkg/adapters/plain"
	"github.com/aretw0/lawnstrings/pkg/adapters/rton"
	"github.com/aretw0/lawnstrings/pkg/core"
)

func newCodecs() core.Codecs {
	return core.Codecs{
		Plain:    plain.NewCodec(plain.WithLineTerminator("\n")),
		Document: jsonfmt.NewCodec(),
		Binary:   rton.NewCodec(),
	}
}

// encodeAs writes m in format f using the adapters directly.
func encodeAs(t *testing.T, c core.Codecs, f core.Format, m *core.Map) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch f {
	case core.FormatPlainText:
		require.NoError(t, c.Plain.WriteMap(&buf, m, core.EncodingUTF8BOM))
	case core.FormatJSONList:
		require.NoError(t, c.Document.EncodeList(&buf, m.ToList()))
	case core.FormatJSONMap:
		require.NoError(t, c.Document.EncodeMap(&buf, m))
	case core.FormatRTONList, core.FormatRTONMap:
		doc := encodeAs(t, c, jsonOf(f), m)
		require.NoError(t, c.Binary.Encode(bytes.NewReader(doc), &buf))
	}
	return buf.Bytes()
}

// decodeAs reads data in format f back into a Map.
func decodeAs(t *testing.T, c core.Codecs, f core.Format, data []byte) *core.Map {
	t.Helper()
	switch f {
	case core.FormatPlainText:
		m, err := c.Plain.ReadMap(bytes.NewReader(data), core.EncodingUTF8BOM)
		require.NoError(t, err)
		return m
	case core.FormatJSONList:
		l, err := c.Document.DecodeList(bytes.NewReader(data))
		require.NoError(t, err)
		return l.ToMap()
	case core.FormatJSONMap:
		m, err := c.Document.DecodeMap(bytes.NewReader(data))
		require.NoError(t, err)
		return m
	default:
		var doc bytes.Buffer
		require.NoError(t, c.Binary.Decode(bytes.NewReader(data), &doc))
		return decodeAs(t, c, jsonOf(f), doc.Bytes())
	}
}

func jsonOf(f core.Format) core.Format {
	if f.IsList() {
		return core.FormatJSONList
	}
	return core.FormatJSONMap
}

func TestService_ConvertMatrix(t *testing.T) {
	codecs := newCodecs()
	svc := core.NewService(codecs, core.ServiceConfig{})
	ctx := context.Background()

	source := core.MapOf(
		core.Entry{Key: "PLANT_10", Value: "Peashooter"},
		core.Entry{Key: "PLANT_2", Value: "Two\nLines"},
		core.Entry{Key: "ZOMBIE", Value: "Brains & <more>"},
	)

	for _, from := range core.Formats {
		for _, to := range core.Formats {
			t.Run(from.String()+" to "+to.String(), func(t *testing.T) {
				in := encodeAs(t, codecs, from, source)

				var out bytes.Buffer
				err := svc.Convert(ctx, bytes.NewReader(in), &out, core.ConvertRequest{From: from, To: to})

				if from == to {
					require.ErrorIs(t, err, core.ErrRedundantConversion)
					assert.Zero(t, out.Len(), "redundant conversion must not write")
					return
				}
				require.NoError(t, err)

				got := decodeAs(t, codecs, to, out.Bytes())
				if diff := cmp.Diff(source.Entries(), got.Entries()); diff != "" {
					t.Errorf("entries mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestService_ConvertPlainReencode(t *testing.T) {
	svc := core.NewService(newCodecs(), core.ServiceConfig{})

	var out bytes.Buffer
	err := svc.Convert(context.Background(), bytes.NewBufferString("[k]\nv\n"), &out, core.ConvertRequest{
		From:        core.FormatPlainText,
		To:          core.FormatPlainText,
		EncodingOut: core.EncodingUTF16LE,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{'[', 0, 'k', 0, ']', 0, '\n', 0, 'v', 0, '\n', 0, '\n', 0}, out.Bytes())
}

func TestService_JSONRoundTrip(t *testing.T) {
	codecs := newCodecs()
	svc := core.NewService(codecs, core.ServiceConfig{})
	ctx := context.Background()
	source := core.MapOf(core.Entry{Key: "a", Value: "1"}, core.Entry{Key: "b", Value: "2"})

	pairs := [][2]core.Format{
		{core.FormatJSONList, core.FormatJSONMap},
		{core.FormatJSONMap, core.FormatJSONList},
	}
	for _, p := range pairs {
		var there, back bytes.Buffer
		require.NoError(t, svc.Convert(ctx, bytes.NewReader(encodeAs(t, codecs, p[0], source)), &there, core.ConvertRequest{From: p[0], To: p[1]}))
		require.NoError(t, svc.Convert(ctx, &there, &back, core.ConvertRequest{From: p[1], To: p[0]}))
		assert.True(t, source.Equal(decodeAs(t, codecs, p[0], back.Bytes())))
	}
}

func TestService_ConvertErrors(t *testing.T) {
	svc := core.NewService(newCodecs(), core.ServiceConfig{})

	t.Run("Unknown Format", func(t *testing.T) {
		err := svc.Convert(context.Background(), nil, io.Discard, core.ConvertRequest{From: core.Format(42)})
		require.ErrorIs(t, err, core.ErrUnsupportedConversion)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := svc.Convert(ctx, nil, io.Discard, core.ConvertRequest{To: core.FormatJSONMap})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Codec Failure Carries Formats", func(t *testing.T) {
		err := svc.Convert(context.Background(), bytes.NewBufferString("not rton"), io.Discard, core.ConvertRequest{
			From: core.FormatRTONMap,
			To:   core.FormatPlainText,
		})
		var opErr *core.OpError
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, core.FormatRTONMap, opErr.From)
		assert.Equal(t, core.FormatPlainText, opErr.To)
		assert.ErrorIs(t, err, rton.ErrInvalidHeader)
	})
}

// recordingCodecs records which adapter methods a conversion calls. Every
// method writes its own name so that chained calls stay observable.
type recordingCodecs struct {
	calls []string
}

func (r *recordingCodecs) record(name string, w io.Writer) error {
	r.calls = append(r.calls, name)
	_, err := io.WriteString(w, name)
	return err
}

func (r *recordingCodecs) ReadList(io.Reader, core.Encoding) (core.List, error) {
	r.calls = append(r.calls, "ReadList")
	return core.List{{Key: "k", Value: "v"}}, nil
}

func (r *recordingCodecs) ReadMap(io.Reader, core.Encoding) (*core.Map, error) {
	r.calls = append(r.calls, "ReadMap")
	return core.MapOf(core.Entry{Key: "k", Value: "v"}), nil
}

func (r *recordingCodecs) WriteList(w io.Writer, _ core.List, _ core.Encoding) error {
	return r.record("WriteList", w)
}

func (r *recordingCodecs) WriteMap(w io.Writer, _ *core.Map, _ core.Encoding) error {
	return r.record("WriteMap", w)
}

func (r *recordingCodecs) WriteEntries(w io.Writer, _ []core.Entry, _ core.Encoding) error {
	return r.record("WriteEntries", w)
}

func (r *recordingCodecs) DecodeList(io.Reader) (core.List, error) {
	r.calls = append(r.calls, "DecodeList")
	return core.List{{Key: "k", Value: "v"}}, nil
}

func (r *recordingCodecs) DecodeMap(io.Reader) (*core.Map, error) {
	r.calls = append(r.calls, "DecodeMap")
	return core.MapOf(core.Entry{Key: "k", Value: "v"}), nil
}

func (r *recordingCodecs) EncodeList(w io.Writer, _ core.List) error {
	return r.record("EncodeList", w)
}

func (r *recordingCodecs) EncodeMap(w io.Writer, _ *core.Map) error {
	return r.record("EncodeMap", w)
}

func (r *recordingCodecs) Encode(_ io.Reader, out io.Writer) error {
	return r.record("Encode", out)
}

func (r *recordingCodecs) Decode(_ io.Reader, out io.Writer) error {
	return r.record("Decode", out)
}

func TestService_ConvertPaths(t *testing.T) {
	tests := []struct {
		from, to core.Format
		want     []string
	}{
		{core.FormatPlainText, core.FormatJSONList, []string{"ReadList", "EncodeList"}},
		{core.FormatPlainText, core.FormatJSONMap, []string{"ReadMap", "EncodeMap"}},
		{core.FormatPlainText, core.FormatRTONList, []string{"ReadList", "EncodeList", "Encode"}},
		{core.FormatPlainText, core.FormatRTONMap, []string{"ReadMap", "EncodeMap", "Encode"}},
		{core.FormatJSONList, core.FormatPlainText, []string{"DecodeList", "WriteList"}},
		{core.FormatJSONList, core.FormatJSONMap, []string{"DecodeList", "EncodeMap"}},
		{core.FormatJSONList, core.FormatRTONList, []string{"Encode"}},
		{core.FormatJSONList, core.FormatRTONMap, []string{"DecodeList", "EncodeMap", "Encode"}},
		{core.FormatJSONMap, core.FormatPlainText, []string{"DecodeMap", "WriteMap"}},
		{core.FormatJSONMap, core.FormatJSONList, []string{"DecodeMap", "EncodeList"}},
		{core.FormatJSONMap, core.FormatRTONList, []string{"DecodeMap", "EncodeList", "Encode"}},
		{core.FormatJSONMap, core.FormatRTONMap, []string{"Encode"}},
		{core.FormatRTONList, core.FormatPlainText, []string{"Decode", "DecodeList", "WriteList"}},
		{core.FormatRTONList, core.FormatJSONList, []string{"Decode"}},
		{core.FormatRTONList, core.FormatJSONMap, []string{"Decode", "DecodeList", "EncodeMap"}},
		{core.FormatRTONList, core.FormatRTONMap, []string{"Decode", "DecodeList", "EncodeMap", "Encode"}},
		{core.FormatRTONMap, core.FormatPlainText, []string{"Decode", "DecodeMap", "WriteMap"}},
		{core.FormatRTONMap, core.FormatJSONList, []string{"Decode", "DecodeMap", "EncodeList"}},
		{core.FormatRTONMap, core.FormatJSONMap, []string{"Decode"}},
		{core.FormatRTONMap, core.FormatRTONList, []string{"Decode", "DecodeMap", "EncodeList", "Encode"}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+" to "+tt.to.String(), func(t *testing.T) {
			rec := &recordingCodecs{}
			svc := core.NewService(core.Codecs{Plain: rec, Document: rec, Binary: rec}, core.ServiceConfig{})

			var out bytes.Buffer
			require.NoError(t, svc.Convert(context.Background(), bytes.NewBufferString("in"), &out, core.ConvertRequest{From: tt.from, To: tt.to}))
			assert.Equal(t, tt.want, rec.calls)
			assert.Equal(t, tt.want[len(tt.want)-1], out.String(), "only the last stage writes to the destination")
		})
	}
}

func TestService_Sort(t *testing.T) {
	codecs := newCodecs()
	ctx := context.Background()
	source := core.MapOf(
		core.Entry{Key: "item10", Value: "ten"},
		core.Entry{Key: "item2", Value: "two"},
		core.Entry{Key: "item1", Value: "one"},
	)
	want := []string{"item1", "item2", "item10"}

	for _, f := range core.Formats {
		t.Run(f.String(), func(t *testing.T) {
			svc := core.NewService(codecs, core.ServiceConfig{})
			var out bytes.Buffer
			require.NoError(t, svc.Sort(ctx, bytes.NewReader(encodeAs(t, codecs, f, source)), &out, f, core.EncodingUTF8BOM))
			assert.Equal(t, want, decodeAs(t, codecs, f, out.Bytes()).Keys())
		})
	}

	t.Run("Strict Overflow", func(t *testing.T) {
		svc := core.NewService(codecs, core.ServiceConfig{StrictOrder: true})
		huge := core.MapOf(
			core.Entry{Key: "k99999999999999999999", Value: "a"},
			core.Entry{Key: "k1", Value: "b"},
		)
		var out bytes.Buffer
		err := svc.Sort(ctx, bytes.NewReader(encodeAs(t, codecs, core.FormatJSONMap, huge)), &out, core.FormatJSONMap, core.EncodingUTF8BOM)
		require.ErrorIs(t, err, core.ErrNumericOverflow)
	})
}

func TestService_Compare(t *testing.T) {
	codecs := newCodecs()
	svc := core.NewService(codecs, core.ServiceConfig{})
	ctx := context.Background()

	a := core.MapOf(
		core.Entry{Key: "same", Value: "1"},
		core.Entry{Key: "edited", Value: "old"},
		core.Entry{Key: "local", Value: "kept"},
	)
	b := core.MapOf(
		core.Entry{Key: "edited", Value: "new"},
		core.Entry{Key: "fresh", Value: "hi"},
		core.Entry{Key: "same", Value: "1"},
		core.Entry{Key: "ignored", Value: "x"},
	)
	exclude := core.NewExcludeSet("ignored")

	tests := []struct {
		mode core.CompareMode
		want []core.Entry
	}{
		{core.CompareAdded, []core.Entry{{Key: "fresh", Value: "hi"}}},
		{core.CompareChanged, []core.Entry{{Key: "edited", Value: "new"}}},
		{core.CompareFullDiff, []core.Entry{{Key: "fresh", Value: "hi"}, {Key: "edited", Value: "new"}}},
	}

	for _, f := range core.Formats {
		for _, tt := range tests {
			t.Run(f.String()+" "+tt.mode.String(), func(t *testing.T) {
				var out bytes.Buffer
				err := svc.Compare(ctx,
					bytes.NewReader(encodeAs(t, codecs, f, a)),
					bytes.NewReader(encodeAs(t, codecs, f, b)),
					&out,
					core.CompareRequest{Format: f, Mode: tt.mode, Exclude: exclude},
				)
				require.NoError(t, err)
				if diff := cmp.Diff(tt.want, decodeAs(t, codecs, f, out.Bytes()).Entries()); diff != "" {
					t.Errorf("diff mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestService_State(t *testing.T) {
	svc := core.NewService(newCodecs(), core.ServiceConfig{StrictOrder: true})
	ctx := context.Background()

	_ = svc.Convert(ctx, nil, io.Discard, core.ConvertRequest{From: core.FormatJSONMap, To: core.FormatJSONMap})
	_ = svc.Convert(ctx, bytes.NewBufferString("bad"), io.Discard, core.ConvertRequest{From: core.FormatRTONList, To: core.FormatJSONMap})
	require.NoError(t, svc.Convert(ctx, bytes.NewBufferString("[k]\nv\n"), io.Discard, core.ConvertRequest{To: core.FormatJSONMap}))

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.True(t, state.StrictOrder)
	assert.Equal(t, map[string]string{"plain": "plain-text", "document": "json", "binary": "rton"}, state.Codecs)
	assert.Equal(t, map[string]int{"convert": 2, "convert_failed": 1}, state.Operations)
	assert.Equal(t, "service", svc.ComponentType())
}
