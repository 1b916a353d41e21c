package webhook

import (
	"strings"
	"testing"
)

func TestExtractMessage_Present(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "acct-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{"type":"text","id":"wamid.1","from":"1555","text":{"body":"hi"}}]
				}
			}]
		}]
	}`)

	raw, ok := ExtractMessage(body)
	if !ok {
		t.Fatal("expected a message")
	}
	if !strings.Contains(string(raw), `"wamid.1"`) {
		t.Fatalf("unexpected message: %s", raw)
	}
}

func TestExtractMessage_Absent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{name: "status only", body: `{"entry":[{"changes":[{"value":{"statuses":[{"status":"delivered"}]}}]}]}`},
		{name: "empty messages", body: `{"entry":[{"changes":[{"value":{"messages":[]}}]}]}`},
		{name: "null message", body: `{"entry":[{"changes":[{"value":{"messages":[null]}}]}]}`},
		{name: "no changes", body: `{"entry":[{}]}`},
		{name: "no entry", body: `{"object":"whatsapp_business_account"}`},
		{name: "empty object", body: `{}`},
		{name: "entry wrong shape", body: `{"entry":"nope"}`},
		{name: "changes wrong shape", body: `{"entry":[{"changes":{"k":1}}]}`},
		{name: "not json", body: `<xml/>`},
		{name: "empty body", body: ``},
	}

	for _, tc := range cases {
		if _, ok := ExtractMessage([]byte(tc.body)); ok {
			t.Fatalf("%s: expected absent", tc.name)
		}
	}
}
