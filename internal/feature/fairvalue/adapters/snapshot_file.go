// Package adapters はスナップショットの出力先を実装します。
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/transport/dto"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
)

// SnapshotFile はスナップショットをJSONファイルに上書き保存します。
// 読み手が書きかけのファイルを見ないよう、同じディレクトリの一時ファイルに書いてから置き換えます。
type SnapshotFile struct {
	path string
}

var _ usecase.SnapshotPublisher = (*SnapshotFile)(nil)

// NewSnapshotFile は指定パスに書き出すSnapshotFileを生成します。
func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

// Path は出力先のパスを返します。
func (f *SnapshotFile) Path() string {
	return f.path
}

// Publish はスナップショットをインデント2のJSONで書き出します。
func (f *SnapshotFile) Publish(_ context.Context, snapshot entity.Snapshot) error {
	b, err := encodeSnapshot(snapshot, "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// rename済みなら何もしない
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// encodeSnapshot は出力DTOのJSONを返します。indentが空なら1行で出力します。
func encodeSnapshot(snapshot entity.Snapshot, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(dto.FromSnapshot(snapshot)); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
