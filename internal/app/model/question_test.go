package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func intPtr(v int) *int { return &v }

func TestQuestion_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		question  Question
		wantField string
	}{
		{
			name:     "text question",
			question: Question{Text: "Saran untuk kami?", Type: QuestionTypeText},
		},
		{
			name:      "blank text",
			question:  Question{Text: "   ", Type: QuestionTypeRating},
			wantField: "text",
		},
		{
			name:      "unknown type",
			question:  Question{Text: "Apa?", Type: "essay"},
			wantField: "type",
		},
		{
			name:      "choice with one real option",
			question:  Question{Text: "Pilih", Type: QuestionTypeMultipleChoice, Options: datatypes.JSONSlice[string]{"Ya", " ", ""}},
			wantField: "options",
		},
		{
			name:      "checklist with duplicate options collapses below two",
			question:  Question{Text: "Pilih", Type: QuestionTypeChecklist, Options: datatypes.JSONSlice[string]{"A", " A "}},
			wantField: "options",
		},
		{
			name:     "checklist limits in range",
			question: Question{Text: "Pilih", Type: QuestionTypeChecklist, Options: datatypes.JSONSlice[string]{"A", "B", "C"}, ChecklistLimits: &ChecklistLimits{MinSelections: intPtr(1), MaxSelections: intPtr(3)}},
		},
		{
			name:      "checklist min above max",
			question:  Question{Text: "Pilih", Type: QuestionTypeChecklist, Options: datatypes.JSONSlice[string]{"A", "B", "C"}, ChecklistLimits: &ChecklistLimits{MinSelections: intPtr(3), MaxSelections: intPtr(2)}},
			wantField: "checklistLimits",
		},
		{
			name:      "checklist max above option count",
			question:  Question{Text: "Pilih", Type: QuestionTypeChecklist, Options: datatypes.JSONSlice[string]{"A", "B"}, ChecklistLimits: &ChecklistLimits{MaxSelections: intPtr(3)}},
			wantField: "checklistLimits.maxSelections",
		},
		{
			name:      "checklist zero min",
			question:  Question{Text: "Pilih", Type: QuestionTypeChecklist, Options: datatypes.JSONSlice[string]{"A", "B"}, ChecklistLimits: &ChecklistLimits{MinSelections: intPtr(0)}},
			wantField: "checklistLimits.minSelections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.question
			q.Normalize()
			err := q.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestQuestion_NormalizeClearsInapplicableFields(t *testing.T) {
	q := Question{
		Text:            " Nilai pelayanan ",
		Type:            QuestionTypeRating,
		Options:         datatypes.JSONSlice[string]{"A", "B"},
		ChecklistLimits: &ChecklistLimits{MaxSelections: intPtr(1)},
	}
	q.Normalize()

	assert.Equal(t, "Nilai pelayanan", q.Text)
	assert.Nil(t, q.Options)
	assert.Nil(t, q.ChecklistLimits)

	choice := Question{
		Text:            "Pilih",
		Type:            QuestionTypeMultipleChoice,
		Options:         datatypes.JSONSlice[string]{" Ya ", "Tidak", "Ya"},
		ChecklistLimits: &ChecklistLimits{MaxSelections: intPtr(1)},
	}
	choice.Normalize()
	assert.Equal(t, datatypes.JSONSlice[string]{"Ya", "Tidak"}, choice.Options)
	assert.Nil(t, choice.ChecklistLimits)
	assert.True(t, choice.HasOption("Tidak"))
	assert.False(t, choice.HasOption("Mungkin"))
}

func TestQuestionGroup_MandatorySubset(t *testing.T) {
	g := QuestionGroup{
		Name:                 "Pelayanan",
		QuestionIDs:          datatypes.JSONSlice[string]{"q1", "q2", "q1", ""},
		MandatoryQuestionIDs: datatypes.JSONSlice[string]{"q2", "q2"},
	}
	g.Normalize()
	require.NoError(t, g.Validate())
	assert.Equal(t, datatypes.JSONSlice[string]{"q1", "q2"}, g.QuestionIDs)
	assert.Equal(t, datatypes.JSONSlice[string]{"q2"}, g.MandatoryQuestionIDs)
	assert.True(t, g.IsMandatory("q2"))
	assert.False(t, g.IsMandatory("q1"))

	g.MandatoryQuestionIDs = append(g.MandatoryQuestionIDs, "q9")
	var verr *ValidationError
	require.ErrorAs(t, g.Validate(), &verr)
	assert.Equal(t, "mandatoryQuestionIds", verr.Field)

	g.QuestionIDs = datatypes.JSONSlice[string]{"q1"}
	g.PruneMandatory()
	assert.Empty(t, g.MandatoryQuestionIDs)
	assert.NoError(t, g.Validate())
}

func TestStore_EffectiveManagers(t *testing.T) {
	s := Store{CreatedBy: "u1", Managers: datatypes.JSONSlice[string]{"u2", "u1", "u3"}}

	assert.Equal(t, []string{"u1", "u2", "u3"}, s.EffectiveManagers())
	assert.True(t, s.IsManager("u1"))
	assert.True(t, s.IsManager("u3"))
	assert.False(t, s.IsManager("u4"))
	assert.False(t, s.IsManager(""))

	creatorOnly := Store{CreatedBy: "u1"}
	assert.Equal(t, []string{"u1"}, creatorOnly.EffectiveManagers())
	assert.True(t, creatorOnly.IsManager("u1"))
}

func TestUser_PermissionAccessors(t *testing.T) {
	super := &User{Role: RoleSuperAdmin}
	staff := &User{Role: RoleStaff, Permissions: datatypes.NewJSONType(Permissions{
		Survey:    SurveyPermissions{View: true},
		Questions: QuestionPermissions{Groups: true},
	})}
	var nobody *User

	assert.True(t, super.CanCreateStore())
	assert.True(t, super.CanExportSurveys())
	assert.True(t, super.CanManageUsers())

	assert.False(t, staff.CanCreateStore())
	assert.True(t, staff.CanViewSurveys())
	assert.False(t, staff.CanExportSurveys())
	assert.True(t, staff.CanManageGroups())
	assert.False(t, staff.CanManageQuestions())
	assert.False(t, staff.CanManageCategories())
	assert.False(t, staff.CanManageUsers())

	assert.False(t, nobody.IsSuperAdmin())
	assert.False(t, nobody.CanViewSurveys())

	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
}
