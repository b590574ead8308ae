// Package occtd is the client adapter for the geometry-kernel daemon, an
// external OpenCascade-based service that performs all solid-modeling work.
// The adapter records modeling operations into a build program per solid
// handle and ships the whole program in a single request when an export is
// asked for, so intermediate operations cost no round trips.
package occtd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cad-pipeline-service/internal/config"
	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
)

// node is one operation in a solid's build program. Children are the operand
// solids, evaluated before the node itself.
type node struct {
	Op       string    `json:"op"`
	Args     []float64 `json:"args,omitempty"`
	Children []*node   `json:"children,omitempty"`
}

type kernelClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg *config.KernelConfig) ports.GeometryKernel {
	return &kernelClient{
		baseURL: cfg.URL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *kernelClient) Box(_ context.Context, length, width, height float64) (ports.Solid, error) {
	return &node{Op: "box", Args: []float64{length, width, height}}, nil
}

func (c *kernelClient) Chamfer(_ context.Context, solid ports.Solid, distance float64) (ports.Solid, error) {
	n, err := toNode(solid)
	if err != nil {
		return nil, err
	}
	return &node{Op: "chamfer", Args: []float64{distance}, Children: []*node{n}}, nil
}

func (c *kernelClient) Translate(_ context.Context, solid ports.Solid, x, y, z float64) (ports.Solid, error) {
	n, err := toNode(solid)
	if err != nil {
		return nil, err
	}
	return &node{Op: "translate", Args: []float64{x, y, z}, Children: []*node{n}}, nil
}

func (c *kernelClient) Union(_ context.Context, a, b ports.Solid) (ports.Solid, error) {
	na, err := toNode(a)
	if err != nil {
		return nil, err
	}
	nb, err := toNode(b)
	if err != nil {
		return nil, err
	}
	return &node{Op: "union", Children: []*node{na, nb}}, nil
}

func (c *kernelClient) Cut(_ context.Context, base, tool ports.Solid) (ports.Solid, error) {
	nb, err := toNode(base)
	if err != nil {
		return nil, err
	}
	nt, err := toNode(tool)
	if err != nil {
		return nil, err
	}
	return &node{Op: "cut", Children: []*node{nb, nt}}, nil
}

type exportRequest struct {
	Format string `json:"format"`
	Solid  *node  `json:"solid"`
}

type kernelError struct {
	Error string `json:"error"`
}

// Export sends the accumulated build program to the kernel daemon and
// returns the serialized solid.
func (c *kernelClient) Export(ctx context.Context, solid ports.Solid, format domain.Format) ([]byte, error) {
	n, err := toNode(solid)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(exportRequest{Format: string(format), Solid: n})
	if err != nil {
		return nil, fmt.Errorf("marshal export request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/export", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kernel export request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var kerr kernelError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &kerr) == nil && kerr.Error != "" {
			return nil, fmt.Errorf("kernel export failed (%d): %s", resp.StatusCode, kerr.Error)
		}
		return nil, fmt.Errorf("kernel export failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read kernel response: %w", err)
	}
	return data, nil
}

func toNode(solid ports.Solid) (*node, error) {
	n, ok := solid.(*node)
	if !ok {
		return nil, fmt.Errorf("solid handle %T does not belong to this kernel adapter", solid)
	}
	return n, nil
}
