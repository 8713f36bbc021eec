package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// ConvertRequest describes a conversion between two formats.
// The encodings only matter for the plain-text side(s).
type ConvertRequest struct {
	From        Format
	To          Format
	EncodingIn  Encoding
	EncodingOut Encoding
}

// CompareRequest describes a diff between two string tables of the same format.
type CompareRequest struct {
	Format   Format
	Mode     CompareMode
	Encoding Encoding
	Exclude  ExcludeSet
}

// ServiceConfig tunes the Service.
type ServiceConfig struct {
	// Logger receives debug traces of each stage. Nil discards them.
	Logger *slog.Logger
	// StrictOrder makes Sort fail on digit runs beyond the 63-bit range.
	StrictOrder bool
}

// Service converts, sorts and compares string tables.
type Service struct {
	codecs Codecs
	logger *slog.Logger
	strict bool

	mu    sync.RWMutex
	stats map[string]int
}

// NewService creates a new Service.
func NewService(codecs Codecs, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		codecs: codecs,
		logger: logger,
		strict: cfg.StrictOrder,
		stats:  make(map[string]int),
	}
}

// Convert reads a string table in req.From from in and writes it in req.To to out.
// Converting a format to itself returns ErrRedundantConversion without touching
// either stream, unless both sides are plain text in different encodings.
func (s *Service) Convert(ctx context.Context, in io.Reader, out io.Writer, req ConvertRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !req.From.Valid() || !req.To.Valid() {
		return &OpError{Op: "convert", From: req.From, To: req.To, Err: ErrUnsupportedConversion}
	}
	if req.From == req.To && (req.From != FormatPlainText || req.EncodingIn == req.EncodingOut) {
		return &OpError{Op: "convert", From: req.From, To: req.To, Err: ErrRedundantConversion}
	}

	s.logger.Debug("converting", "from", req.From, "to", req.To)

	var err error
	switch req.From {
	case FormatPlainText:
		err = s.fromPlain(in, out, req.To, req.EncodingIn, req.EncodingOut)
	case FormatJSONList:
		err = s.fromJSONList(in, out, req.To, req.EncodingOut)
	case FormatJSONMap:
		err = s.fromJSONMap(in, out, req.To, req.EncodingOut)
	case FormatRTONList:
		err = s.fromRTONList(in, out, req.To, req.EncodingOut)
	case FormatRTONMap:
		err = s.fromRTONMap(in, out, req.To, req.EncodingOut)
	}
	s.record("convert", err)
	if err != nil {
		return &OpError{Op: "convert", From: req.From, To: req.To, Err: err}
	}
	return nil
}

func (s *Service) fromPlain(in io.Reader, out io.Writer, to Format, encIn, encOut Encoding) error {
	switch to {
	case FormatJSONList:
		return s.plainToJSON(in, out, encIn, true)
	case FormatJSONMap:
		return s.plainToJSON(in, out, encIn, false)
	case FormatRTONList, FormatRTONMap:
		var doc bytes.Buffer
		if err := s.plainToJSON(in, &doc, encIn, to.IsList()); err != nil {
			return err
		}
		return s.codecs.Binary.Encode(&doc, out)
	default:
		m, err := s.codecs.Plain.ReadMap(in, encIn)
		if err != nil {
			return err
		}
		return s.codecs.Plain.WriteMap(out, m, encOut)
	}
}

func (s *Service) plainToJSON(in io.Reader, out io.Writer, enc Encoding, asList bool) error {
	if asList {
		l, err := s.codecs.Plain.ReadList(in, enc)
		if err != nil {
			return err
		}
		return s.codecs.Document.EncodeList(out, l)
	}
	m, err := s.codecs.Plain.ReadMap(in, enc)
	if err != nil {
		return err
	}
	return s.codecs.Document.EncodeMap(out, m)
}

func (s *Service) fromJSONList(in io.Reader, out io.Writer, to Format, enc Encoding) error {
	switch to {
	case FormatJSONMap:
		return s.jsonListToMap(in, out)
	case FormatRTONList:
		return s.codecs.Binary.Encode(in, out)
	case FormatRTONMap:
		var doc bytes.Buffer
		if err := s.jsonListToMap(in, &doc); err != nil {
			return err
		}
		return s.codecs.Binary.Encode(&doc, out)
	default:
		l, err := s.codecs.Document.DecodeList(in)
		if err != nil {
			return err
		}
		return s.codecs.Plain.WriteList(out, l, enc)
	}
}

func (s *Service) fromJSONMap(in io.Reader, out io.Writer, to Format, enc Encoding) error {
	switch to {
	case FormatJSONList:
		return s.jsonMapToList(in, out)
	case FormatRTONList:
		var doc bytes.Buffer
		if err := s.jsonMapToList(in, &doc); err != nil {
			return err
		}
		return s.codecs.Binary.Encode(&doc, out)
	case FormatRTONMap:
		return s.codecs.Binary.Encode(in, out)
	default:
		m, err := s.codecs.Document.DecodeMap(in)
		if err != nil {
			return err
		}
		return s.codecs.Plain.WriteMap(out, m, enc)
	}
}

func (s *Service) fromRTONList(in io.Reader, out io.Writer, to Format, enc Encoding) error {
	if to == FormatJSONList {
		return s.codecs.Binary.Decode(in, out)
	}

	var doc bytes.Buffer
	if err := s.codecs.Binary.Decode(in, &doc); err != nil {
		return err
	}

	switch to {
	case FormatJSONMap:
		return s.jsonListToMap(&doc, out)
	case FormatRTONMap:
		var reshaped bytes.Buffer
		if err := s.jsonListToMap(&doc, &reshaped); err != nil {
			return err
		}
		return s.codecs.Binary.Encode(&reshaped, out)
	default:
		l, err := s.codecs.Document.DecodeList(&doc)
		if err != nil {
			return err
		}
		return s.codecs.Plain.WriteList(out, l, enc)
	}
}

func (s *Service) fromRTONMap(in io.Reader, out io.Writer, to Format, enc Encoding) error {
	if to == FormatJSONMap {
		return s.codecs.Binary.Decode(in, out)
	}

	var doc bytes.Buffer
	if err := s.codecs.Binary.Decode(in, &doc); err != nil {
		return err
	}

	switch to {
	case FormatJSONList:
		return s.jsonMapToList(&doc, out)
	case FormatRTONList:
		var reshaped bytes.Buffer
		if err := s.jsonMapToList(&doc, &reshaped); err != nil {
			return err
		}
		return s.codecs.Binary.Encode(&reshaped, out)
	default:
		m, err := s.codecs.Document.DecodeMap(&doc)
		if err != nil {
			return err
		}
		return s.codecs.Plain.WriteMap(out, m, enc)
	}
}

func (s *Service) jsonListToMap(in io.Reader, out io.Writer) error {
	l, err := s.codecs.Document.DecodeList(in)
	if err != nil {
		return err
	}
	return s.codecs.Document.EncodeMap(out, l.ToMap())
}

func (s *Service) jsonMapToList(in io.Reader, out io.Writer) error {
	m, err := s.codecs.Document.DecodeMap(in)
	if err != nil {
		return err
	}
	return s.codecs.Document.EncodeList(out, m.ToList())
}

// Sort rewrites the string table read from in with its keys in natural order.
// Plain text is read as a map, so duplicate sections collapse to their last value.
func (s *Service) Sort(ctx context.Context, in io.Reader, out io.Writer, format Format, enc Encoding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !format.Valid() {
		return &OpError{Op: "sort", From: format, To: format, Err: ErrUnsupportedConversion}
	}

	s.logger.Debug("sorting", "format", format)

	var err error
	switch format {
	case FormatJSONList, FormatJSONMap:
		err = s.sortJSON(in, out, format.IsList())
	case FormatRTONList, FormatRTONMap:
		var unsorted, sorted bytes.Buffer
		if err = s.codecs.Binary.Decode(in, &unsorted); err != nil {
			break
		}
		if err = s.sortJSON(&unsorted, &sorted, format.IsList()); err != nil {
			break
		}
		err = s.codecs.Binary.Encode(&sorted, out)
	default:
		var m *Map
		if m, err = s.codecs.Plain.ReadMap(in, enc); err != nil {
			break
		}
		if m, err = s.sortMap(m); err != nil {
			break
		}
		err = s.codecs.Plain.WriteMap(out, m, enc)
	}
	s.record("sort", err)
	if err != nil {
		return &OpError{Op: "sort", From: format, To: format, Err: err}
	}
	return nil
}

func (s *Service) sortJSON(in io.Reader, out io.Writer, asList bool) error {
	if asList {
		l, err := s.codecs.Document.DecodeList(in)
		if err != nil {
			return err
		}
		if l, err = s.sortList(l); err != nil {
			return err
		}
		return s.codecs.Document.EncodeList(out, l)
	}

	m, err := s.codecs.Document.DecodeMap(in)
	if err != nil {
		return err
	}
	if m, err = s.sortMap(m); err != nil {
		return err
	}
	return s.codecs.Document.EncodeMap(out, m)
}

func (s *Service) sortMap(m *Map) (*Map, error) {
	if s.strict {
		return SortMapStrict(m)
	}
	return SortMap(m), nil
}

func (s *Service) sortList(l List) (List, error) {
	if s.strict {
		return SortListStrict(l)
	}
	return SortList(l), nil
}

// Compare computes the diff of b against the base a and writes it to diff,
// encoded in the same format as the inputs.
func (s *Service) Compare(ctx context.Context, a, b io.Reader, diff io.Writer, req CompareRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !req.Format.Valid() {
		return &OpError{Op: "compare", From: req.Format, To: req.Format, Err: ErrUnsupportedConversion}
	}

	s.logger.Debug("comparing", "format", req.Format, "mode", req.Mode, "excluded", len(req.Exclude))

	var err error
	switch req.Format {
	case FormatJSONList, FormatJSONMap:
		err = s.compareJSON(a, b, diff, req)
	case FormatRTONList, FormatRTONMap:
		err = s.compareRTON(a, b, diff, req)
	default:
		err = s.comparePlain(a, b, diff, req)
	}
	s.record("compare", err)
	if err != nil {
		return &OpError{Op: "compare", From: req.Format, To: req.Format, Err: err}
	}
	return nil
}

func (s *Service) comparePlain(a, b io.Reader, diff io.Writer, req CompareRequest) error {
	mapA, err := s.codecs.Plain.ReadMap(a, req.Encoding)
	if err != nil {
		return err
	}
	mapB, err := s.codecs.Plain.ReadMap(b, req.Encoding)
	if err != nil {
		return err
	}
	result := DiffMap(req.Mode, mapA, mapB, req.Exclude)
	return s.codecs.Plain.WriteEntries(diff, result, req.Encoding)
}

func (s *Service) compareJSON(a, b io.Reader, diff io.Writer, req CompareRequest) error {
	if req.Format.IsList() {
		listA, err := s.codecs.Document.DecodeList(a)
		if err != nil {
			return err
		}
		listB, err := s.codecs.Document.DecodeList(b)
		if err != nil {
			return err
		}
		return s.codecs.Document.EncodeList(diff, DiffList(req.Mode, listA, listB, req.Exclude))
	}

	mapA, err := s.codecs.Document.DecodeMap(a)
	if err != nil {
		return err
	}
	mapB, err := s.codecs.Document.DecodeMap(b)
	if err != nil {
		return err
	}
	return s.codecs.Document.EncodeMap(diff, MapOf(DiffMap(req.Mode, mapA, mapB, req.Exclude)...))
}

func (s *Service) compareRTON(a, b io.Reader, diff io.Writer, req CompareRequest) error {
	var docA, docB, docDiff bytes.Buffer
	if err := s.codecs.Binary.Decode(a, &docA); err != nil {
		return err
	}
	if err := s.codecs.Binary.Decode(b, &docB); err != nil {
		return err
	}
	if err := s.compareJSON(&docA, &docB, &docDiff, req); err != nil {
		return err
	}
	return s.codecs.Binary.Encode(&docDiff, diff)
}

func (s *Service) record(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[op]++
	if err != nil && !errors.Is(err, ErrRedundantConversion) {
		s.stats[op+"_failed"]++
	}
}
