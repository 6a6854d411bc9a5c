package entity

// DocumentPage is one already-extracted page of an input document.
type DocumentPage struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// Document is one raw input document as submitted by the caller.
// Either Pages (pre-split text) or Data (raw PDF bytes, base64 on the wire)
// is populated; Pages wins when both are present.
type Document struct {
	FileName string         `json:"fileName"`
	Pages    []DocumentPage `json:"pages,omitempty"`
	Data     []byte         `json:"data,omitempty"`
}

// PageRecord is one normalized, budget-trimmed page of input text.
// Immutable once created.
type PageRecord struct {
	FileName   string `json:"fileName"`
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// Chunk is a bounded group of same-document pages submitted as one unit of
// extraction work. Text is the page-marker-prefixed concatenation of Pages.
type Chunk struct {
	FileName string
	Pages    []PageRecord
	Text     string
}

// FirstPage returns the page number of the chunk's first page, or 1 for an
// empty chunk.
func (c Chunk) FirstPage() int {
	if len(c.Pages) == 0 {
		return 1
	}
	return c.Pages[0].PageNumber
}

// PageNumbers lists the page numbers covered by the chunk, in order.
func (c Chunk) PageNumbers() []int {
	nums := make([]int, 0, len(c.Pages))
	for _, p := range c.Pages {
		nums = append(nums, p.PageNumber)
	}
	return nums
}
