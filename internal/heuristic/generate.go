package heuristic

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Family is the template family picked for an image.
type Family int

const (
	FamilyFlowchart Family = iota
	FamilySequence
	FamilyState
	FamilyMindmap
)

func (f Family) String() string {
	switch f {
	case FamilyFlowchart:
		return "flowchart"
	case FamilySequence:
		return "sequence"
	case FamilyState:
		return "state"
	default:
		return "mindmap"
	}
}

// Classify applies the rule table in order; the first match wins.
func Classify(s Statistics) Family {
	aspect := s.AspectRatio()
	switch {
	case s.EdgeRatio() > FlowchartEdgeRatio && aspect > FlowchartAspect:
		return FamilyFlowchart
	case aspect < SequenceAspect && float64(s.Edges) > SequenceEdgeDensity*float64(s.Total()):
		return FamilySequence
	case s.BrightnessRatio() > StateBrightness:
		return FamilyState
	default:
		return FamilyMindmap
	}
}

// Generate returns diagram text for the statistics, headed by a comment
// block that restates the measured metrics.
func Generate(s Statistics, fileName string) string {
	return header(s, fileName) + body(Classify(s), s, fileName)
}

// GenerateFromImage samples an already decoded image and generates text.
func GenerateFromImage(img image.Image, fileName string) string {
	return Generate(Sample(img), fileName)
}

// GenerateFromPixels treats pix as a width×height RGBA buffer.
func GenerateFromPixels(pix []byte, width, height int, fileName string) string {
	img := &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return GenerateFromImage(img, fileName)
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

func header(s Statistics, fileName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%%%% Generated automatically from: %s\n", fileName)
	b.WriteString("%% Image analysis:\n")
	fmt.Fprintf(&b, "%%%% - Average brightness: %d%%\n", percent(s.BrightnessRatio()))
	fmt.Fprintf(&b, "%%%% - Edge density: %d%%\n", percent(s.EdgeRatio()))
	fmt.Fprintf(&b, "%%%% - Aspect ratio: %.2f\n", s.AspectRatio())
	b.WriteString("%% \n")
	b.WriteString("%% Edit this code to fit your needs\n\n")
	return b.String()
}

func body(f Family, s Statistics, fileName string) string {
	switch f {
	case FamilyFlowchart:
		return fmt.Sprintf(`flowchart LR
    A["Image: %s"] --> B[Analysis complete]
    B --> C{Detected type}
    C -->|Horizontal| D[Linear process]
    C -->|Defined edges| E[Clear structure]
    D --> F[Result]
    E --> F

    style A fill:#e1f5fe
    style F fill:#e8f5e8
    style C fill:#fff3e0`, fileName)
	case FamilySequence:
		return fmt.Sprintf(`sequenceDiagram
    participant U as User
    participant S as System
    participant I as Image: %s

    U->>S: Load image
    S->>I: Analyze content
    I-->>S: Structure detected
    S-->>U: Code generated

    Note over I: Detected traits:<br/>- Vertical orientation<br/>- Defined edges<br/>- Sequential structure`, fileName)
	case FamilyState:
		return fmt.Sprintf(`stateDiagram-v2
    [*] --> ImageLoaded
    ImageLoaded --> Analyzing : process
    Analyzing --> Done : analysis succeeded
    Analyzing --> Failed : analysis failed
    Done --> [*]
    Failed --> ImageLoaded : retry

    note right of Done
        Image: %s
        Brightness: %d%%
        Structure: Clear
    end note`, fileName, percent(s.BrightnessRatio()))
	default:
		return fmt.Sprintf(`mindmap
  root((Image analysis))
    File
      %s
    Traits
      Brightness: %d%%
      Edges: %d%%
      Aspect: %.2f
    Interpretation
      Structure detected
      Code generated
      Ready to edit`, fileName, percent(s.BrightnessRatio()), percent(s.EdgeRatio()), s.AspectRatio())
	}
}
