package connection

import (
	"context"
	"io"
	"net/http"
)

// Backup streams the agent's store backup into w and returns the number
// of bytes written.
func (a *Agent) Backup(ctx context.Context, w io.Writer) (int64, error) {
	resp, err := a.http.Get(ctx, "/v1/backup")
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, ParseResponse(resp, nil)
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}
