package main

import "testing"

func Test_parseSetPair(t *testing.T) {
	key, v, err := parseSetPair("fontSize=20")
	if err != nil || key != "fontSize" {
		t.Fatalf("key=%q err=%v", key, err)
	}
	if n, ok := v.(int); !ok || n != 20 {
		t.Fatalf("value=%v (%T), want int 20", v, v)
	}

	_, v, err = parseSetPair("lineHeight=1.6")
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := v.(float64); !ok || f != 1.6 {
		t.Fatalf("value=%v (%T), want float 1.6", v, v)
	}

	_, v, err = parseSetPair("theme=dark")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(string); !ok || s != "dark" {
		t.Fatalf("value=%v (%T), want string dark", v, v)
	}

	if _, _, err := parseSetPair("nope"); err == nil {
		t.Fatalf("missing '=' must error")
	}
	if _, _, err := parseSetPair("=5"); err == nil {
		t.Fatalf("empty key must error")
	}
}
