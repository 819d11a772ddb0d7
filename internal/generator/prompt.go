package generator

import (
	"strings"

	"zenith-npc-service/internal/model"
)

// systemPrompt frames every completion request. The model must answer with
// bare JSON so the response can be unmarshaled directly.
const systemPrompt = "You are a creative writer specializing in generating unique characters for fantasy and sci-fi settings. Always respond with valid JSON."

const basePrompt = `Generate a unique NPC (Non-Player Character) for a fantasy mega city named Zenith.
Please provide the information in JSON format with the following exact structure:

{
    "Name": "Character's full name",
    "Age": numeric_age,
    "Species": "Species/Race name",
    "PhysicalDescription": "Detailed physical appearance description",
    "PersonalityDescription": "Detailed personality traits and characteristics",
    "ResidentDistrict": "The district or area where they live"
}

Guidelines:
- Make each character unique and interesting
- Physical descriptions should be vivid and detailed (2-3 sentences)
- Personality descriptions should include quirks, motivations, and behavioral traits
- Districts can be fantasy/sci-fi themed (e.g., "Merchant Quarter", "Tech District", "Mystic Gardens")
- Species can be fantasy races (elves, dwarves, orcs) or sci-fi aliens`

// BuildPrompt renders a generation request into the user prompt. Pure and
// deterministic: identical requests yield byte-identical prompts, and absent
// preferences contribute no constraint line.
func BuildPrompt(req model.GenerationRequest) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if req.SpeciesPreference != "" {
		b.WriteString("\n- Species should be: ")
		b.WriteString(req.SpeciesPreference)
	}
	if req.DistrictPreference != "" {
		b.WriteString("\n- Resident District should be: ")
		b.WriteString(req.DistrictPreference)
	}
	if req.AgeRange != "" {
		b.WriteString("\n- Age should be in range: ")
		b.WriteString(req.AgeRange)
	}

	b.WriteString("\n\nReturn ONLY the JSON object, no additional text.")
	return b.String()
}
