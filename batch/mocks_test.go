package batch

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdf_optimizer/pdf"
)

type mockCompressor struct {
	mock.Mock
}

func (m *mockCompressor) Compress(ctx context.Context, inFile, outFile string, level pdf.Level) error {
	args := m.Called(ctx, inFile, outFile, level)
	return args.Error(0)
}

type mockMetadataEngine struct {
	mock.Mock
}

func (m *mockMetadataEngine) ReadInfo(path string) (map[string]string, error) {
	args := m.Called(path)
	info, _ := args.Get(0).(map[string]string)
	return info, args.Error(1)
}

func (m *mockMetadataEngine) WriteInfo(inFile, outFile string, info map[string]string) error {
	args := m.Called(inFile, outFile, info)
	return args.Error(0)
}

func (m *mockMetadataEngine) Encrypt(inFile, outFile, password string) error {
	args := m.Called(inFile, outFile, password)
	return args.Error(0)
}

// inputContains matches a path whose file content contains marker
func inputContains(marker string) interface{} {
	return mock.MatchedBy(func(path string) bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), marker)
	})
}

// copyCompression makes Compress copy the input to the output
func copyCompression(args mock.Arguments) {
	data, err := os.ReadFile(args.String(1))
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(args.String(2), data, 0o644); err != nil {
		panic(err)
	}
}

// stampInfo makes WriteInfo copy the input and append the Info entries in
// sorted order, so the output bytes reveal the metadata written
func stampInfo(args mock.Arguments) {
	data, err := os.ReadFile(args.String(0))
	if err != nil {
		panic(err)
	}
	info := args.Get(2).(map[string]string)
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data = append(data, fmt.Sprintf("\n/%s (%s)", k, info[k])...)
	}
	if err := os.WriteFile(args.String(1), data, 0o644); err != nil {
		panic(err)
	}
}

// encryptStamp makes Encrypt copy the input with an /Encrypt marker
func encryptStamp(args mock.Arguments) {
	data, err := os.ReadFile(args.String(0))
	if err != nil {
		panic(err)
	}
	data = append(data, "\n/Encrypt"...)
	if err := os.WriteFile(args.String(1), data, 0o644); err != nil {
		panic(err)
	}
}

// happyEngine reads empty metadata and stamps every rewrite
func happyEngine() *mockMetadataEngine {
	engine := &mockMetadataEngine{}
	engine.On("ReadInfo", mock.Anything).Return(map[string]string{}, nil)
	engine.On("WriteInfo", mock.Anything, mock.Anything, mock.Anything).Run(stampInfo).Return(nil)
	engine.On("Encrypt", mock.Anything, mock.Anything, mock.Anything).Run(encryptStamp).Return(nil)
	return engine
}

func copyingCompressor() *mockCompressor {
	comp := &mockCompressor{}
	comp.On("Compress", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Run(copyCompression).Return(nil)
	return comp
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func upload(name, content string) UploadedFile {
	return UploadedFile{Filename: name, Content: strings.NewReader(content)}
}
