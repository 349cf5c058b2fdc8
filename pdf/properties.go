package pdf

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MetadataEngine reads and rewrites a document's Info dictionary and applies
// password protection.
type MetadataEngine interface {
	ReadInfo(path string) (map[string]string, error)
	WriteInfo(inFile, outFile string, info map[string]string) error
	Encrypt(inFile, outFile, password string) error
}

// PdfcpuEngine is the MetadataEngine backed by the pdfcpu library. Each call
// uses its own configuration, so one engine serves concurrent files.
type PdfcpuEngine struct{}

// NewPdfcpuEngine returns the pdfcpu-backed metadata engine.
func NewPdfcpuEngine() *PdfcpuEngine {
	return &PdfcpuEngine{}
}

// relaxedConfiguration reads Ghostscript output without strict validation
func relaxedConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// passwordConfiguration opens documents protected with password
func passwordConfiguration(password string) *model.Configuration {
	conf := relaxedConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	return conf
}

func (e *PdfcpuEngine) readContext(path, password string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return api.ReadContext(f, passwordConfiguration(password))
}

// ReadInfo returns every string-valued Info dictionary entry keyed without
// the leading slash.
func (e *PdfcpuEngine) ReadInfo(path string) (map[string]string, error) {
	return e.readInfo(path, "")
}

func (e *PdfcpuEngine) readInfo(path, password string) (map[string]string, error) {
	ctx, err := e.readContext(path, password)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrMetadataRewriteFailed, path, err)
	}

	d, err := infoDict(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: info dict: %v", ErrMetadataRewriteFailed, err)
	}
	return decodeInfoDict(ctx, d), nil
}

// WriteInfo copies inFile to outFile with the given Info entries applied.
// Entries whose value is unchanged keep their original PDF object.
func (e *PdfcpuEngine) WriteInfo(inFile, outFile string, info map[string]string) error {
	ctx, err := e.readContext(inFile, "")
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrMetadataRewriteFailed, inFile, err)
	}

	d, err := infoDict(ctx, true)
	if err != nil {
		return fmt.Errorf("%w: info dict: %v", ErrMetadataRewriteFailed, err)
	}

	current := decodeInfoDict(ctx, d)
	for key, value := range info {
		if old, ok := current[key]; ok && old == value {
			continue
		}
		d.Update(key, encodeInfoString(value))
	}

	if err := api.WriteContextFile(ctx, outFile); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrMetadataRewriteFailed, outFile, err)
	}
	return e.pinDates(outFile, "", info)
}

// Encrypt writes an AES-256 protected copy of inFile. The password serves as
// both user and owner password. The document dates of inFile are kept.
func (e *PdfcpuEngine) Encrypt(inFile, outFile, password string) error {
	info, err := e.readInfo(inFile, "")
	if err != nil {
		return err
	}

	conf := model.NewAESConfiguration(password, password, EncryptionKeyLength)
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.EncryptFile(inFile, outFile, conf); err != nil {
		return fmt.Errorf("%w: encrypt %s: %v", ErrMetadataRewriteFailed, inFile, err)
	}
	return e.pinDates(outFile, password, info)
}

// pinDates appends an incremental update to path restoring the CreationDate
// and ModDate entries of info. pdfcpu stamps both with the current time on
// every full write of a pre-2.0 document; an increment leaves them alone.
func (e *PdfcpuEngine) pinDates(path, password string, info map[string]string) error {
	dates := make(map[string]string, 2)
	for _, key := range []string{KeyCreationDate, KeyModDate} {
		if v := info[key]; v != "" {
			dates[key] = v
		}
	}
	if len(dates) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrMetadataRewriteFailed, path, err)
	}
	defer f.Close()

	ctx, err := api.ReadContext(f, passwordConfiguration(password))
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrMetadataRewriteFailed, path, err)
	}

	d, err := infoDict(ctx, true)
	if err != nil {
		return fmt.Errorf("%w: info dict: %v", ErrMetadataRewriteFailed, err)
	}

	current := decodeInfoDict(ctx, d)
	changed := false
	for key, value := range dates {
		if current[key] == value {
			continue
		}
		d.Update(key, encodeInfoString(value))
		changed = true
	}
	if !changed {
		return nil
	}

	ctx.Write.Increment = true
	ctx.Write.Offset = ctx.Read.FileSize
	ctx.WriteXRefStream = ctx.Read.UsingXRefStreams
	ctx.Write.IncrementWithObjNr(ctx.Info.ObjectNumber.Value())

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: seek %s: %v", ErrMetadataRewriteFailed, path, err)
	}
	if err := api.WriteIncrement(ctx, f); err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrMetadataRewriteFailed, path, err)
	}
	return nil
}

// infoDict dereferences the trailer's Info dictionary, creating an empty one
// when create is set and the document has none
func infoDict(ctx *model.Context, create bool) (types.Dict, error) {
	if ctx.Info == nil {
		if !create {
			return types.Dict{}, nil
		}
		d := types.NewDict()
		ir, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return nil, err
		}
		ctx.Info = ir
		return d, nil
	}

	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = types.NewDict()
	}
	return d, nil
}

func decodeInfoDict(ctx *model.Context, d types.Dict) map[string]string {
	entries := make(map[string]string, len(d))
	for key, obj := range d {
		o, err := ctx.Dereference(obj)
		if err != nil || o == nil {
			continue
		}
		switch v := o.(type) {
		case types.StringLiteral:
			if s, err := types.StringLiteralToString(v); err == nil {
				entries[key] = s
			}
		case types.HexLiteral:
			if s, err := types.HexLiteralToString(v); err == nil {
				entries[key] = s
			}
		case types.Name:
			entries[key] = string(v)
		}
	}
	return entries
}

// encodeInfoString produces a literal string for printable ASCII and a
// UTF-16BE hex string with byte order mark for everything else
func encodeInfoString(s string) types.Object {
	if isPrintableASCII(s) {
		r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
		return types.StringLiteral(r.Replace(s))
	}

	units := utf16.Encode([]rune(s))
	b := make([]byte, 0, 2+2*len(units))
	b = append(b, 0xFE, 0xFF)
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.HexLiteral(strings.ToUpper(hex.EncodeToString(b)))
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}
