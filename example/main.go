package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/analyze"
	"github.com/meikuraledutech/pipeline/client"
	"github.com/meikuraledutech/pipeline/graph"
	"github.com/meikuraledutech/pipeline/ports"
)

func main() {
	ctx := context.Background()

	g := graph.New()

	// ── Build a small pipeline the way the canvas would ──────────────
	input, _ := g.Drop([]byte(`{"nodeType": "customInput"}`), pipeline.Position{X: 100, Y: 100})
	text, _ := g.Drop([]byte(`{"nodeType": "text"}`), pipeline.Position{X: 400, Y: 100})
	llm, _ := g.Drop([]byte(`{"nodeType": "llm"}`), pipeline.Position{X: 700, Y: 100})
	out, _ := g.Drop([]byte(`{"nodeType": "customOutput"}`), pipeline.Position{X: 1000, Y: 100})

	g.UpdateNodeField(input.ID, "value", "Ada")
	g.UpdateNodeField(text.ID, "text", "Hello {{name}}, summarise {{topic}} for {{name}}.")
	g.UpdateNodeField(llm.ID, "model", "claude")

	textPorts, _ := g.Ports(text.ID)
	fmt.Println("text inputs:")
	for i, p := range textPorts.Inputs {
		fmt.Printf("  %s at %s\n", p.ID, ports.Percent(i, len(textPorts.Inputs)))
	}

	g.Connect(pipeline.Connection{
		SourceNodeID: input.ID, SourcePortID: input.ID + "-output",
		TargetNodeID: text.ID, TargetPortID: textPorts.Inputs[0].ID,
	})
	g.Connect(pipeline.Connection{
		SourceNodeID: text.ID, SourcePortID: text.ID + "-output",
		TargetNodeID: llm.ID, TargetPortID: llm.ID + "-prompt",
	})
	g.Connect(pipeline.Connection{
		SourceNodeID: llm.ID, SourcePortID: llm.ID + "-response",
		TargetNodeID: out.ID, TargetPortID: out.ID + "-value",
	})

	// ── Move a node, then analyse locally ────────────────────────────
	g.ApplyNodeChanges([]pipeline.NodeChange{{
		Type:     pipeline.ChangePosition,
		ID:       out.ID,
		Position: &pipeline.Position{X: 1000, Y: 300},
	}})

	snap := g.Snapshot()
	fmt.Println("\nlocal analysis:")
	printJSON(analyze.Analyze(&snap))

	// ── Close the loop and analyse again ─────────────────────────────
	g.Connect(pipeline.Connection{
		SourceNodeID: out.ID, SourcePortID: out.ID + "-loop",
		TargetNodeID: input.ID, TargetPortID: input.ID + "-input",
	})
	snap = g.Snapshot()
	fmt.Println("\nwith loop:")
	printJSON(analyze.Analyze(&snap))

	// ── Submit to a running server, if any ───────────────────────────
	if url := os.Getenv("PIPELINE_ANALYZER_URL"); url != "" {
		sub := client.New(url)
		a, err := sub.Submit(ctx, snap)
		if err != nil {
			log.Fatalf("submit: %v (%s)", err, sub.Notice())
		}
		fmt.Println("\nremote analysis:")
		printJSON(a)
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
