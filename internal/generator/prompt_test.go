package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"zenith-npc-service/internal/model"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := model.GenerationRequest{
		SpeciesPreference:  "Elf",
		DistrictPreference: "Mystic Gardens",
		AgeRange:           "20-30",
	}
	assert.Equal(t, BuildPrompt(req), BuildPrompt(req), "identical requests must yield byte-identical prompts")
}

func TestBuildPrompt_NoPreferences(t *testing.T) {
	prompt := BuildPrompt(model.GenerationRequest{})

	assert.Contains(t, prompt, "fantasy mega city named Zenith")
	assert.Contains(t, prompt, `"PhysicalDescription"`)
	assert.Contains(t, prompt, "Return ONLY the JSON object, no additional text.")

	assert.NotContains(t, prompt, "Species should be")
	assert.NotContains(t, prompt, "Resident District should be")
	assert.NotContains(t, prompt, "Age should be in range")
}

func TestBuildPrompt_ConstraintLines(t *testing.T) {
	tests := []struct {
		name        string
		req         model.GenerationRequest
		wantLines   []string
		absentLines []string
	}{
		{
			name:        "species only",
			req:         model.GenerationRequest{SpeciesPreference: "Elf"},
			wantLines:   []string{"- Species should be: Elf"},
			absentLines: []string{"Resident District should be", "Age should be in range"},
		},
		{
			name:        "district only",
			req:         model.GenerationRequest{DistrictPreference: "Tech District"},
			wantLines:   []string{"- Resident District should be: Tech District"},
			absentLines: []string{"Species should be", "Age should be in range"},
		},
		{
			name:        "age range only",
			req:         model.GenerationRequest{AgeRange: "100-200"},
			wantLines:   []string{"- Age should be in range: 100-200"},
			absentLines: []string{"Species should be", "Resident District should be"},
		},
		{
			name: "all preferences",
			req: model.GenerationRequest{
				SpeciesPreference:  "Dwarf",
				DistrictPreference: "Merchant Quarter",
				AgeRange:           "40-90",
			},
			wantLines: []string{
				"- Species should be: Dwarf",
				"- Resident District should be: Merchant Quarter",
				"- Age should be in range: 40-90",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(tt.req)
			for _, line := range tt.wantLines {
				assert.Contains(t, prompt, line)
			}
			for _, line := range tt.absentLines {
				assert.NotContains(t, prompt, line)
			}
		})
	}
}

func TestBuildPrompt_ConstraintOrder(t *testing.T) {
	prompt := BuildPrompt(model.GenerationRequest{
		SpeciesPreference:  "Orc",
		DistrictPreference: "Undercity",
		AgeRange:           "25-35",
	})

	species := strings.Index(prompt, "Species should be")
	district := strings.Index(prompt, "Resident District should be")
	age := strings.Index(prompt, "Age should be in range")

	assert.True(t, species < district, "species line must come before district line")
	assert.True(t, district < age, "district line must come before age line")
}
