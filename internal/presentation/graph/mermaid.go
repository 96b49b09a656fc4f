package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// GraphOverlay contains simulation state to visualize on the graph.
type GraphOverlay struct {
	// LiveElements are the ids of elements on at least one closed path.
	LiveElements []string
	// BurntOut are the ids of elements whose MaxCurrent was exceeded.
	BurntOut []string
	Status   domain.Status
}

// OverlayFromResult collects the live and burnt-out element ids of a simulation result.
func OverlayFromResult(res *domain.Result) *GraphOverlay {
	if res == nil {
		return nil
	}
	o := &GraphOverlay{Status: res.Status}
	for id, r := range res.Readings {
		if r.OnPath {
			o.LiveElements = append(o.LiveElements, id)
		}
		if r.BurntOut {
			o.BurntOut = append(o.BurntOut, id)
		}
	}
	sort.Strings(o.LiveElements)
	sort.Strings(o.BurntOut)
	return o
}

// GenerateMermaid produces a Mermaid flowchart of a circuit: junctions become nodes and
// elements become labelled links between the junctions of their two terminals.
// Link style follows the element:
// - Source: ==thick==
// - Non-conducting (voltmeter, open switch): -.dotted.-
// - Default: ---solid---
// Live elements from the overlay are highlighted with linkStyle, and the junctions they
// touch get the "live" class.
func GenerateMermaid(junctions []domain.Junction, elements []domain.Element, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make([]string, len(junctions))
	ends := make(map[int]*[2]int, len(elements))
	for ji, j := range junctions {
		ids[ji] = "j_" + sanitizeMermaidID(j.Key)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", ids[ji], j.Key))
		for _, ep := range j.Endpoints {
			pair, ok := ends[ep.Element]
			if !ok {
				pair = &[2]int{-1, -1}
				ends[ep.Element] = pair
			}
			pair[ep.Side] = ji
		}
	}

	live := toSet(overlay, func(o *GraphOverlay) []string { return o.LiveElements })
	burnt := toSet(overlay, func(o *GraphOverlay) []string { return o.BurntOut })

	var liveLinks []string
	liveJunctions := make(map[int]bool)
	link := 0
	for _, el := range elements {
		pair, ok := ends[el.Index]
		if !ok || pair[0] < 0 || pair[1] < 0 {
			continue
		}

		label := fmt.Sprintf("%s (%s)", el.ID, el.Kind)
		if el.Kind == domain.KindSwitch && !el.Enabled {
			label = fmt.Sprintf("%s (%s, open)", el.ID, el.Kind)
		}
		if burnt[el.ID] {
			label += " 🔥"
		}
		label = strings.ReplaceAll(label, "\"", "'")

		arrow := "---"
		switch {
		case el.Kind == domain.KindSource:
			arrow = "==="
		case !el.Conducts():
			arrow = "-.-"
		}
		sb.WriteString(fmt.Sprintf("    %s %s|\"%s\"| %s\n", ids[pair[0]], arrow, label, ids[pair[1]]))

		if live[el.ID] {
			liveLinks = append(liveLinks, fmt.Sprint(link))
			liveJunctions[pair[0]] = true
			liveJunctions[pair[1]] = true
		}
		link++
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString(fmt.Sprintf("    %%%% status: %s\n", overlay.Status))
		sb.WriteString("    classDef live fill:#fff3c4,stroke:#f59e0b,stroke-width:2px,color:#000;\n")
		if len(liveLinks) > 0 {
			sb.WriteString(fmt.Sprintf("    linkStyle %s stroke:#f59e0b,stroke-width:4px;\n", strings.Join(liveLinks, ",")))
		}
		marked := make([]int, 0, len(liveJunctions))
		for ji := range liveJunctions {
			marked = append(marked, ji)
		}
		sort.Ints(marked)
		for _, ji := range marked {
			sb.WriteString(fmt.Sprintf("    class %s live;\n", ids[ji]))
		}
	}

	return sb.String()
}

func toSet(o *GraphOverlay, pick func(*GraphOverlay) []string) map[string]bool {
	set := make(map[string]bool)
	if o == nil {
		return set
	}
	for _, id := range pick(o) {
		set[id] = true
	}
	return set
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ",", "_")
	return s
}
