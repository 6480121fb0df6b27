package export

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/regulomics/grnscope/pkg/graphview"
	"github.com/regulomics/grnscope/pkg/model"
)

// htmlNode is the JSON shape consumed by the embedded viewer script.
type htmlNode struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	InDegree  int     `json:"in_degree"`
	OutDegree int     `json:"out_degree"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// htmlLink references nodes by index into the nodes array.
type htmlLink struct {
	Source     int     `json:"source"`
	Target     int     `json:"target"`
	Confidence float64 `json:"confidence"`
	Weight     float64 `json:"weight"`
	Opacity    float64 `json:"opacity"`
}

type htmlPayload struct {
	Title     string     `json:"title"`
	Threshold float64    `json:"threshold"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Nodes     []htmlNode `json:"nodes"`
	Links     []htmlLink `json:"links"`
}

// GenerateHTML builds a self-contained interactive HTML page for a rendered
// scene. The precomputed layout seeds the in-browser simulation so the page
// opens in the same arrangement the viewer showed.
func GenerateHTML(title string, scene *graphview.Scene) (string, error) {
	if scene == nil || scene.Outcome != model.OutcomeRendered {
		return "", fmt.Errorf("no rendered scene to export")
	}
	if strings.TrimSpace(title) == "" {
		title = "Regulatory Network"
	}

	payload := htmlPayload{
		Title:     title,
		Threshold: scene.Threshold,
		Width:     scene.Space.Width,
		Height:    scene.Space.Height,
		Nodes:     make([]htmlNode, 0, len(scene.Nodes)),
		Links:     make([]htmlLink, 0, len(scene.Edges)),
	}
	for _, n := range scene.Nodes {
		payload.Nodes = append(payload.Nodes, htmlNode{
			ID:        n.ID,
			Name:      n.Name,
			Role:      n.Role.String(),
			InDegree:  n.InDegree,
			OutDegree: n.OutDegree,
			X:         n.Pos.X,
			Y:         n.Pos.Y,
		})
	}
	for _, e := range scene.Edges {
		payload.Links = append(payload.Links, htmlLink{
			Source:     e.Source,
			Target:     e.Target,
			Confidence: e.Confidence,
			Weight:     e.Weight,
			Opacity:    e.Opacity,
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal graph data: %w", err)
	}

	html := strings.Replace(htmlTemplate, "__TITLE__", htmlEscape(title), -1)
	html = strings.Replace(html, "__DATA__", string(data), 1)
	return html, nil
}

// WriteHTMLFile renders the interactive page and writes it to path.
func WriteHTMLFile(path, title string, scene *graphview.Scene) error {
	html, err := GenerateHTML(title, scene)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// htmlTemplate carries a small canvas force simulation. Node positions start
// from the exported layout; dragging a node re-runs the simulation locally.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>__TITLE__</title>
<style>
  body { margin: 0; background: #f9fafb; font-family: monospace; }
  #bar { padding: 8px 16px; background: #f3f4f6; border-bottom: 1px solid #ddd; }
  #bar span { color: #666; margin-right: 16px; }
  #tip { position: absolute; display: none; background: #222; color: #eee;
         padding: 6px 10px; border-radius: 4px; font-size: 12px; pointer-events: none; }
  canvas { display: block; }
</style>
</head>
<body>
<div id="bar"><b>__TITLE__</b>
  <span id="counts"></span>
</div>
<div id="tip"></div>
<canvas id="view"></canvas>
<script>
const graph = __DATA__;

const canvas = document.getElementById('view');
const ctx = canvas.getContext('2d');
const tip = document.getElementById('tip');
document.getElementById('counts').textContent =
  graph.nodes.length + ' nodes, ' + graph.links.length + ' edges, threshold ' +
  graph.threshold.toFixed(2);

function resize() {
  canvas.width = window.innerWidth;
  canvas.height = window.innerHeight - document.getElementById('bar').offsetHeight;
}
window.addEventListener('resize', () => { resize(); draw(); });
resize();

const sx = canvas.width / (graph.width || 1000);
const sy = canvas.height / (graph.height || 1000);
for (const n of graph.nodes) { n.x *= sx; n.y *= sy; n.vx = 0; n.vy = 0; }

const params = { repulsion: 2500, springLength: 120, stiffness: 0.05, damping: 0.85, gravity: 0.02 };
let ticks = 0;

function step() {
  const nodes = graph.nodes;
  for (let i = 0; i < nodes.length; i++) {
    for (let j = i + 1; j < nodes.length; j++) {
      let dx = nodes[j].x - nodes[i].x, dy = nodes[j].y - nodes[i].y;
      let d2 = dx * dx + dy * dy || 0.01;
      const f = params.repulsion / d2;
      const d = Math.sqrt(d2);
      dx /= d; dy /= d;
      nodes[i].vx -= f * dx; nodes[i].vy -= f * dy;
      nodes[j].vx += f * dx; nodes[j].vy += f * dy;
    }
  }
  for (const l of graph.links) {
    const a = nodes[l.source], b = nodes[l.target];
    let dx = b.x - a.x, dy = b.y - a.y;
    const d = Math.sqrt(dx * dx + dy * dy) || 0.1;
    const f = params.stiffness * (d - params.springLength);
    dx /= d; dy /= d;
    a.vx += f * dx; a.vy += f * dy;
    b.vx -= f * dx; b.vy -= f * dy;
  }
  const cx = canvas.width / 2, cy = canvas.height / 2;
  for (const n of nodes) {
    n.vx += (cx - n.x) * params.gravity;
    n.vy += (cy - n.y) * params.gravity;
    n.vx *= params.damping; n.vy *= params.damping;
    if (n !== dragging) { n.x += n.vx; n.y += n.vy; }
  }
}

const roleColor = { 'TF': '#42a5f5', 'Target': '#c8e6c9', 'TF+Target': '#ab47bc' };

function draw() {
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  for (const l of graph.links) {
    const a = graph.nodes[l.source], b = graph.nodes[l.target];
    ctx.globalAlpha = l.opacity;
    ctx.strokeStyle = '#6b80bf';
    ctx.lineWidth = l.weight;
    ctx.beginPath();
    ctx.moveTo(a.x, a.y);
    ctx.lineTo(b.x, b.y);
    ctx.stroke();
  }
  ctx.globalAlpha = 1;
  for (const n of graph.nodes) {
    ctx.fillStyle = roleColor[n.role] || '#c8e6c9';
    ctx.strokeStyle = '#222';
    ctx.beginPath();
    ctx.arc(n.x, n.y, 7, 0, 2 * Math.PI);
    ctx.fill();
    ctx.stroke();
    ctx.fillStyle = '#111';
    ctx.font = '11px monospace';
    ctx.fillText(n.name, n.x + 10, n.y + 4);
  }
}

let dragging = null;
function nodeAt(x, y) {
  for (const n of graph.nodes) {
    const dx = n.x - x, dy = n.y - y;
    if (dx * dx + dy * dy < 100) return n;
  }
  return null;
}
canvas.addEventListener('mousedown', e => {
  dragging = nodeAt(e.offsetX, e.offsetY);
  if (dragging) ticks = 0;
});
canvas.addEventListener('mousemove', e => {
  if (dragging) {
    dragging.x = e.offsetX; dragging.y = e.offsetY;
  } else {
    const n = nodeAt(e.offsetX, e.offsetY);
    if (n) {
      tip.style.display = 'block';
      tip.style.left = (e.pageX + 12) + 'px';
      tip.style.top = (e.pageY + 12) + 'px';
      tip.textContent = n.name + ' (' + n.id + ') ' + n.role +
        '  in:' + n.in_degree + ' out:' + n.out_degree;
    } else {
      tip.style.display = 'none';
    }
  }
});
canvas.addEventListener('mouseup', () => { dragging = null; });

function loop() {
  if (ticks < 300) { step(); ticks++; }
  draw();
  requestAnimationFrame(loop);
}
ticks = 250; // layout is pre-seeded, only settle briefly
loop();
</script>
</body>
</html>
`
