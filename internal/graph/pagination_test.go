package graph

import "testing"

func TestNewPage_Arithmetic(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		limit     int
		offset    int
		wantPage  int
		wantPages int
	}{
		{"first page", 25, 10, 0, 1, 3},
		{"second page", 25, 10, 10, 2, 3},
		{"last partial page", 25, 10, 20, 3, 3},
		{"exact fit", 20, 10, 10, 2, 2},
		{"single item", 1, 10, 0, 1, 1},
		{"empty result", 0, 10, 0, 1, 0},
		{"zero limit", 25, 0, 0, 1, 1},
		{"negative limit", 25, -5, 0, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPage([]string{}, tc.total, tc.limit, tc.offset)
			if page.Page != tc.wantPage {
				t.Errorf("Page = %d, want %d", page.Page, tc.wantPage)
			}
			if page.Pages != tc.wantPages {
				t.Errorf("Pages = %d, want %d", page.Pages, tc.wantPages)
			}
			if page.Total != tc.total {
				t.Errorf("Total = %d, want %d", page.Total, tc.total)
			}
			if page.Size != tc.limit {
				t.Errorf("Size = %d, want %d", page.Size, tc.limit)
			}
		})
	}
}

func TestNewPage_NilItemsBecomeEmptySlice(t *testing.T) {
	page := NewPage[string](nil, 0, 10, 0)
	if page.Items == nil {
		t.Fatal("Items should never be nil, it must serialize as []")
	}
}

func TestEmptyPage(t *testing.T) {
	page := EmptyPage[string](10)
	if page.Total != 0 || page.Page != 1 || page.Pages != 0 || page.Size != 10 {
		t.Errorf("EmptyPage = %+v, want total 0, page 1, pages 0, size 10", page)
	}
	if len(page.Items) != 0 || page.Items == nil {
		t.Errorf("EmptyPage items should be an empty non-nil slice")
	}
}
