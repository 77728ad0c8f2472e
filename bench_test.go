package lignin

import (
	"context"
	"testing"
)

// benchJSSource is a realistic ~80-line JavaScript file with branches, loops,
// logical runs, and nested functions for exercising the full pipeline.
const benchJSSource = `
function parseQuery(raw) {
  const params = {};
  if (!raw || raw === "?") {
    return params;
  }
  for (const pair of raw.replace("?", "").split("&")) {
    const [key, value] = pair.split("=");
    if (key && value !== undefined) {
      params[key] = decodeURIComponent(value);
    }
  }
  return params;
}

function route(req, handlers) {
  switch (req.method) {
    case "GET":
      return handlers.read(req);
    case "POST":
      return handlers.write(req);
    case "DELETE":
      if (req.user && req.user.admin) {
        return handlers.remove(req);
      }
      return handlers.forbidden(req);
    default:
      return handlers.reject(req);
  }
}

const withRetry = (task, attempts) => {
  let lastErr;
  for (let i = 0; i < attempts; i++) {
    try {
      return task();
    } catch (err) {
      lastErr = err;
      if (!err.retryable || i === attempts - 1) {
        throw lastErr;
      }
    }
  }
};

function flatten(tree) {
  const out = [];
  function visit(node) {
    if (!node) return;
    out.push(node.value);
    for (const child of node.children || []) {
      visit(child);
    }
  }
  visit(tree);
  return out;
}

const pipeline = {
  normalize: function (items) {
    return items.map((item) => {
      return item && item.name ? item.name.trim() : "";
    });
  },
};
`

func BenchmarkAnalyzeSource(b *testing.B) {
	engine := New()
	source := []byte(benchJSSource)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.AnalyzeSource(ctx, "bench.js", source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnalyzeEntries(b *testing.B) {
	source := []byte(benchJSSource)
	entries := make([]Entry, 32)
	for i := range entries {
		entries[i] = Entry{Path: "pkg/bench.js", Source: source}
	}
	ctx := context.Background()

	for _, mode := range []struct {
		name     string
		parallel bool
	}{
		{"serial", false},
		{"parallel", true},
	} {
		b.Run(mode.name, func(b *testing.B) {
			engine := New(WithParallel(mode.parallel))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				engine.AnalyzeEntries(ctx, entries)
			}
		})
	}
}
