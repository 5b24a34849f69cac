package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/five82/kampfrichter/internal/apperr"
)

// TempPaths derives the writer's intermediate files from a target PDF path by
// replacing the trailing .pdf with _temp.html and _temp.docx.
func TempPaths(pdfPath string) (htmlPath, docxPath string, err error) {
	trimmed := strings.TrimSpace(pdfPath)
	if trimmed == "" {
		return "", "", apperr.New(apperr.CSharpPDFSavePathIsEmpty, "derive temp paths", errors.New("pdf path is empty"))
	}
	ext := filepath.Ext(trimmed)
	if !strings.EqualFold(ext, ".pdf") {
		return "", "", apperr.New(apperr.InvalidExportPathError, "derive temp paths",
			fmt.Errorf("%q does not end in .pdf", trimmed))
	}
	base := strings.TrimSuffix(trimmed, ext)
	return base + "_temp.html", base + "_temp.docx", nil
}
