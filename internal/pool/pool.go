package pool

import (
	"sync"
	"time"

	"github.com/fystack/lottery-genius/pkg/common/logger"
)

const DefaultCooldown = 30 * time.Second

// Pool rotates over the base URLs configured for one upstream source and benches
// nodes that failed recently.
type Pool struct {
	nodes       []string
	currentIdx  int
	failedNodes map[string]time.Time
	cooldown    time.Duration
	now         func() time.Time
	mutex       sync.Mutex
}

func New(nodes []string, cooldown time.Duration) *Pool {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Pool{
		nodes:       nodes,
		failedNodes: make(map[string]time.Time),
		cooldown:    cooldown,
		now:         time.Now,
	}
}

func (p *Pool) Len() int {
	return len(p.nodes)
}

// GetNext returns the next healthy node. When every node is benched the
// failures are forgotten and the first node is returned.
func (p *Pool) GetNext() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.nodes) == 0 {
		return ""
	}

	for i := 0; i < len(p.nodes); i++ {
		node := p.nodes[p.currentIdx]
		p.currentIdx = (p.currentIdx + 1) % len(p.nodes)

		if failTime, exists := p.failedNodes[node]; !exists || p.now().Sub(failTime) > p.cooldown {
			return node
		}
	}

	p.failedNodes = make(map[string]time.Time)
	return p.nodes[0]
}

func (p *Pool) MarkFailed(node string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.failedNodes[node] = p.now()
	logger.Debug("Upstream node marked as failed", "node", node)
}

func (p *Pool) MarkHealthy(node string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, ok := p.failedNodes[node]; ok {
		delete(p.failedNodes, node)
		logger.Debug("Upstream node marked as healthy", "node", node)
	}
}

func (p *Pool) GetStats() (total, healthy, failed int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	total = len(p.nodes)
	failed = len(p.failedNodes)
	healthy = total - failed
	return
}
