// Command healthcheck consulta /health y /db-ping de la API local.
// Sale con código 1 si alguna falla; pensado para HEALTHCHECK de contenedor.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"sistpec-api/internal/platform/httpclient"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := flag.String("url", "http://127.0.0.1:"+port, "URL base de la API")
	withDB := flag.Bool("db", true, "verificar también /db-ping (-db=false lo omite)")
	timeout := flag.Duration("timeout", 3*time.Second, "timeout por request")
	flag.Parse()

	c, err := httpclient.New(*base, *timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(context.Background(), c, checkPaths(*withDB), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func checkPaths(withDB bool) []string {
	if withDB {
		return []string{"/health", "/db-ping"}
	}
	return []string{"/health"}
}

// run se detiene en el primer endpoint que falle.
func run(ctx context.Context, c *httpclient.Client, paths []string, w io.Writer) error {
	for _, p := range paths {
		var out map[string]any
		if err := c.DoJSON(ctx, http.MethodGet, p, "", nil, &out); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		fmt.Fprintf(w, "%s: %v\n", p, out)
	}
	return nil
}
