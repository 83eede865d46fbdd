package manager

import (
	"os"
	"time"

	"visiond/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := types.StatusResponse{
		State:            string(m.state),
		CtxSize:          m.spec.CtxSize,
		GPULayers:        m.spec.GPULayers,
		QueueLen:         len(m.queueCh),
		Inflight:         len(m.genCh),
		MaxQueueDepth:    cap(m.queueCh),
		CompletionsTotal: m.completions.Load(),
		LastError:        m.err,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
	if m.adapter != nil {
		resp.Adapter = m.adapter.Name()
	}
	if ss, ok := m.session.(*llamaSubprocessSession); ok {
		resp.PID = ss.pid()
	}
	resp.Artifacts = []types.ArtifactStatus{
		artifactStatus("model", m.spec.ModelPath),
		artifactStatus("mmproj", m.spec.MMProjPath),
	}
	return resp
}

func artifactStatus(role, path string) types.ArtifactStatus {
	st := types.ArtifactStatus{Role: role, Path: path}
	if fi, err := os.Stat(path); err == nil {
		st.SizeBytes = fi.Size()
	}
	return st
}
