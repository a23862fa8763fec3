package fits

import (
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

// Extract opens the file at path read-only and returns one Section per HDU,
// in file order. Data payloads are skipped by seeking, never read.
func Extract(path string) ([]Section, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("example file does not exist").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryRuntime, "could not open example file").
			WithContext("path", path).
			Build()
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "could not stat example file").
			WithContext("path", path).
			Build()
	}
	fileSize := info.Size()

	var sections []Section

	for index := 0; ; index++ {
		h, err := readHeader(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := validateLeadCard(h, index, path); err != nil {
			return nil, err
		}

		dataBytes := dataSize(h)
		section := buildSection(h, index, dataBytes)
		sections = append(sections, section)

		// Skip the data payload. Data is padded to a 2880-byte boundary,
		// but tolerate a final HDU whose writer omitted the padding.
		headerEnd, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "seek failed").Build()
		}
		padded := paddedSize(dataBytes)
		next := headerEnd + padded
		if next > fileSize {
			if headerEnd+dataBytes > fileSize {
				return nil, errors.StructureError("truncated FITS data segment").
					WithContext("path", path).
					WithContext("hdu", index).
					Build()
			}
			next = fileSize
		}
		if _, err := f.Seek(next, io.SeekStart); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "seek failed").Build()
		}
	}

	if len(sections) == 0 {
		return nil, errors.StructureError("file contains no FITS header").
			WithContext("path", path).
			Build()
	}

	return sections, nil
}

// validateLeadCard enforces the container format: the primary HDU must open
// with SIMPLE = T, every extension with an XTENSION card.
func validateLeadCard(h *header, index int, path string) error {
	if len(h.cards) == 0 {
		return errors.StructureError("empty FITS header").
			WithContext("path", path).
			WithContext("hdu", index).
			Build()
	}
	lead := h.cards[0]
	if index == 0 {
		if lead.key != "SIMPLE" || lead.value != true {
			return errors.StructureError("file is not a standard FITS container").
				WithContext("path", path).
				Build()
		}
		return nil
	}
	if lead.key != "XTENSION" {
		return errors.StructureError("extension header missing XTENSION card").
			WithContext("path", path).
			WithContext("hdu", index).
			Build()
	}
	return nil
}

// buildSection converts one parsed header into a Section.
func buildSection(h *header, index int, dataBytes int64) Section {
	xtension := strings.TrimSpace(h.getString("XTENSION"))
	tabular := xtension == "BINTABLE" || xtension == "TABLE"

	section := Section{
		Name:    sectionName(h, index),
		IsImage: index == 0 || xtension == "IMAGE",
		Size:    FormatBytes(dataBytes),
		Header:  headerAttributes(h),
	}
	if tabular {
		section.Columns = tableColumns(h)
	}
	return section
}

// sectionName returns the EXTNAME, or a positional fallback for unnamed HDUs.
func sectionName(h *header, index int) string {
	if name := strings.TrimSpace(h.getString("EXTNAME")); name != "" {
		return strings.ToUpper(name)
	}
	if index == 0 {
		return "PRIMARY"
	}
	return fmt.Sprintf("HDU%d", index)
}

// headerAttributes maps header cards to attributes, dropping the TTYPEn and
// TFORMn bookkeeping cards that are already represented by the column layout.
func headerAttributes(h *header) []Attribute {
	attrs := make([]Attribute, 0, len(h.cards))
	for _, c := range h.cards {
		if strings.Contains(c.key, "TFORM") || strings.Contains(c.key, "TTYPE") {
			continue
		}
		attrs = append(attrs, Attribute{Key: c.key, Value: c.value, Comment: c.comment})
	}
	return attrs
}

// tableColumns reads the declared column layout of a table extension.
func tableColumns(h *header) []Column {
	n := h.getInt("TFIELDS", 0)
	columns := make([]Column, 0, n)
	for i := int64(1); i <= n; i++ {
		name := strings.TrimSpace(h.getString(fmt.Sprintf("TTYPE%d", i)))
		if name == "" {
			name = fmt.Sprintf("COL%d", i)
		}
		columns = append(columns, Column{
			Name: strings.ToUpper(name),
			Type: formatType(h.getString(fmt.Sprintf("TFORM%d", i))),
			Unit: strings.TrimSpace(h.getString(fmt.Sprintf("TUNIT%d", i))),
		})
	}
	return columns
}

// dataSize returns the unpadded byte size of the HDU's data segment.
func dataSize(h *header) int64 {
	naxis := h.getInt("NAXIS", 0)
	if naxis == 0 {
		return 0
	}
	elements := int64(1)
	for i := int64(1); i <= naxis; i++ {
		elements *= h.getInt(fmt.Sprintf("NAXIS%d", i), 0)
	}
	bitpix := h.getInt("BITPIX", 8)
	if bitpix < 0 {
		bitpix = -bitpix
	}
	pcount := h.getInt("PCOUNT", 0)
	gcount := h.getInt("GCOUNT", 1)
	return (bitpix / 8) * gcount * (pcount + elements)
}

// paddedSize rounds a data size up to the 2880-byte block boundary.
func paddedSize(n int64) int64 {
	if n%blockSize == 0 {
		return n
	}
	return (n/blockSize + 1) * blockSize
}
