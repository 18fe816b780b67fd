package service

import "testing"

func TestResolveActor(t *testing.T) {
	tests := []struct {
		name      string
		explicit  string
		session   string
		wantActor string
		wantOK    bool
	}{
		{"explicit wins over session", "u-explicit", "u-session", "u-explicit", true},
		{"session when no explicit", "", "u-session", "u-session", true},
		{"explicit alone", "u-explicit", "", "u-explicit", true},
		{"anonymous", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, ok := ResolveActor(tt.explicit, tt.session)
			if actor != tt.wantActor || ok != tt.wantOK {
				t.Errorf("ResolveActor(%q, %q) = (%q, %v), want (%q, %v)",
					tt.explicit, tt.session, actor, ok, tt.wantActor, tt.wantOK)
			}
		})
	}
}
