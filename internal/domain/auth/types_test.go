package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionRecord_Identity(t *testing.T) {
	rec := SessionRecord{ID: "ab12345", Email: "jane.doe@lgcns.com", Dept: strPtr("D100"), Corp: strPtr("LG01")}
	assert.True(t, rec.Complete())

	id := rec.Identity()
	assert.Equal(t, "AB12345", id.SubjectID)
	assert.Equal(t, "jane.doe", id.DisplayName)
	assert.Equal(t, "jane.doe@lgcns.com", id.Email)
	assert.Equal(t, "D100", id.DepartmentCode)
	assert.Equal(t, "D100", id.DepartmentName)
	assert.Equal(t, "LG01", id.OrgCode)
	assert.Equal(t, "LG01", id.ProfitCenter)
	assert.Empty(t, id.TitleName)
	assert.True(t, id.WorkingDayFlag)
}

func TestSessionRecord_DefaultsUnknown(t *testing.T) {
	id := SessionRecord{ID: "x1", Email: "x@y"}.Identity()
	assert.Equal(t, UnknownValue, id.DepartmentCode)
	assert.Equal(t, UnknownValue, id.DepartmentName)
	assert.Equal(t, UnknownValue, id.OrgCode)
}

func TestSessionRecord_EmptyValuesAreKept(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantDept string
		wantCorp string
	}{
		{"absent", `{"id":"x1","email":"x@y"}`, UnknownValue, UnknownValue},
		{"null", `{"id":"x1","email":"x@y","dept":null,"corp":null}`, UnknownValue, UnknownValue},
		{"empty", `{"id":"x1","email":"x@y","dept":"","corp":""}`, "", ""},
		{"set", `{"id":"x1","email":"x@y","dept":"D1","corp":"C1"}`, "D1", "C1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec SessionRecord
			assert.NoError(t, json.Unmarshal([]byte(tt.payload), &rec))
			id := rec.Identity()
			assert.Equal(t, tt.wantDept, id.DepartmentCode)
			assert.Equal(t, tt.wantCorp, id.OrgCode)
		})
	}
}

func TestSessionRecord_Complete(t *testing.T) {
	tests := []struct {
		name string
		rec  SessionRecord
		want bool
	}{
		{"both present", SessionRecord{ID: "a", Email: "a@b"}, true},
		{"missing id", SessionRecord{Email: "a@b", Dept: strPtr("D")}, false},
		{"missing email", SessionRecord{ID: "a", Corp: strPtr("C")}, false},
		{"blank id", SessionRecord{ID: "  ", Email: "a@b"}, false},
		{"empty", SessionRecord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Complete())
		})
	}
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "user", LocalPart("user@example.com"))
	assert.Equal(t, "noat", LocalPart("noat"))
	assert.Equal(t, "", LocalPart("@example.com"))
	assert.Equal(t, "a", LocalPart("a@b@c"))
}

func TestNormalizeSessionKey(t *testing.T) {
	assert.Equal(t, "AX:abc", NormalizeSessionKey(DefaultKeyPrefix, "abc"))
	assert.Equal(t, "AX:abc", NormalizeSessionKey(DefaultKeyPrefix, "AX:abc"))
	assert.Equal(t, "AX:abc", NormalizeSessionKey(DefaultKeyPrefix, " abc "))
	assert.Equal(t, "AX:abc", SessionKey(DefaultKeyPrefix, "abc"))
}

func strPtr(s string) *string { return &s }
