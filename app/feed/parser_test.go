package feed

import (
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>en-us</language>
    <item>
      <title>Alpha</title>
      <link>https://example.com/alpha</link>
      <description>First</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <category>Technology</category>
      <category>Programming</category>
    </item>
    <item>
      <title>Beta</title>
      <link>https://example.com/beta</link>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	metadata, items, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", metadata.Title)
	}
	if metadata.Language != "en-us" {
		t.Errorf("Expected language 'en-us', got: %s", metadata.Language)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	if items[0].Title != "Alpha" {
		t.Errorf("Expected first title 'Alpha', got: %s", items[0].Title)
	}
	if items[1].Title != "Beta" {
		t.Errorf("Expected second title 'Beta', got: %s", items[1].Title)
	}
	if items[0].GUID != "item-1" {
		t.Errorf("Expected GUID 'item-1', got: %s", items[0].GUID)
	}
	if items[1].GUID != "https://example.com/beta" {
		t.Errorf("Expected GUID to fall back to link, got: %s", items[1].GUID)
	}
	if items[0].PublishedAt == nil {
		t.Error("Expected published date to be parsed")
	}
	if len(items[0].Categories) != 2 {
		t.Errorf("Expected 2 categories, got: %d", len(items[0].Categories))
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
  </entry>
</feed>`

	parser := NewParser()
	metadata, items, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if metadata.Title != "Test Atom Feed" {
		t.Errorf("Expected title 'Test Atom Feed', got: %s", metadata.Title)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].PublishedAt == nil {
		t.Error("Expected updated date to be used when published is missing")
	}
}

func TestParseNormalizesTitles(t *testing.T) {
	rssData := "<rss version=\"2.0\"><channel><title>T</title>" +
		"<item><title>  Café \n\t news  </title></item>" +
		"</channel></rss>"

	parser := NewParser()
	_, items, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != "Café news" {
		t.Errorf("Expected normalized title 'Café news', got: %q", items[0].Title)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte("invalid xml"))

	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}

func TestParseEmptyBody(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte("  \n"))

	if err == nil {
		t.Error("Expected error for empty body")
	}
}
