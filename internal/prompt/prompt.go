// Package prompt builds the fixed chat sent to the vision model.
package prompt

// Roles used in chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content part types (OpenAI chat format).
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// Message is a role-tagged chat entry. Content is either a string or []Part.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Part is one element of a multimodal message.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL or data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// SystemInstruction establishes the assistant role.
const SystemInstruction = "You are an assistant that provides detailed descriptions of images and all objects inside it in json format."

// AnalysisInstruction is the user instruction describing the required output schema.
const AnalysisInstruction = `Analyze this image in detail and provide a comprehensive caption in JSON format. Include:
1. A complete description of the overall scene
2. All identifiable objects in the image

Return your response strictly in this JSON format:
{
  "description": "Provide a thorough description of the entire image, capturing the main elements, setting, activities, and overall context",
  "objects": [
    {
      "name": "Specific name of object 1",
      "description": "Brief explanation of what this object is doing or its role in the image",
      "attributes": "Color, size, condition, position, and other distinctive features of the object"
    },
    {
      "name": "Specific name of object 2",
      "description": "Brief explanation of what this object is doing or its role in the image",
      "attributes": "Color, size, condition, position, and other distinctive features of the object"
    }
    // Include all visible objects
  ]
}

Important requirements:
- Be factual and accurate in your descriptions
- Identify ALL visible objects in the image
- Use precise, descriptive language
- Maintain the exact JSON structure provided
- Ensure proper JSON formatting with no trailing commas
- Do not include any explanatory text outside the JSON structure`

// AnalysisChat returns the two-entry chat for analyzing the image at dataURI.
func AnalysisChat(dataURI string) []Message {
	return []Message{
		{Role: RoleSystem, Content: SystemInstruction},
		{Role: RoleUser, Content: []Part{
			{Type: PartImageURL, ImageURL: &ImageURL{URL: dataURI}},
			{Type: PartText, Text: AnalysisInstruction},
		}},
	}
}

// ImageRefs returns the image URLs referenced by msgs, in order.
func ImageRefs(msgs []Message) []string {
	var out []string
	for _, m := range msgs {
		parts, ok := m.Content.([]Part)
		if !ok {
			continue
		}
		for _, p := range parts {
			if p.Type == PartImageURL && p.ImageURL != nil {
				out = append(out, p.ImageURL.URL)
			}
		}
	}
	return out
}
