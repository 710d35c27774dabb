package main

import (
	"reflect"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"press", Request{Op: "press_keys", Keys: []string{"ctrl", "alt"}}, []string{"keydown", "ctrl", "alt"}},
		{"tap char", Request{Op: "tap_key", Keys: []string{"c"}}, []string{"key", "c"}},
		{"tap named", Request{Op: "tap_key", Keys: []string{"page_up"}}, []string{"key", "Prior"}},
		{"function key", Request{Op: "tap_key", Keys: []string{"f5"}}, []string{"key", "F5"}},
		{"release", Request{Op: "release_keys", Keys: []string{"alt", "ctrl"}}, []string{"keyup", "alt", "ctrl"}},
		{"mouse down", Request{Op: "mouse_down", Button: "left"}, []string{"mousedown", "1"}},
		{"mouse up right", Request{Op: "mouse_up", Button: "right"}, []string{"mouseup", "3"}},
		{"move", Request{Op: "move", DX: -4, DY: 7}, []string{"mousemove_relative", "--", "-4", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildArgs(tt.req)
			if err != nil {
				t.Fatalf("buildArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildArgs_Errors(t *testing.T) {
	for _, req := range []Request{
		{Op: "tap_key"},
		{Op: "mouse_down", Button: "middle"},
		{Op: "levitate"},
	} {
		if _, err := buildArgs(req); err == nil {
			t.Errorf("buildArgs(%+v) expected error", req)
		}
	}
}
