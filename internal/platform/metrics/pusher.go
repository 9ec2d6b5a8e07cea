// Package metrics はPrometheus Pushgatewayへのメトリクス送信を提供します。
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher はレジストリの内容をPushgatewayのジョブとしてPUTします。
// バッチ処理のように常駐しないプロセスからメトリクスを公開するために使います。
type Pusher struct {
	url    string
	job    string
	client *http.Client
}

// NewPusher は新しいPusherを生成します。clientがnilの場合はclient_golangの既定クライアントを使います。
func NewPusher(url, job string, client *http.Client) *Pusher {
	return &Pusher{url: url, job: job, client: client}
}

// Job はジョブ名を返します。
func (p *Pusher) Job() string {
	return p.job
}

// Push はgathererの全メトリクスでジョブのメトリクスを置き換えます。
func (p *Pusher) Push(ctx context.Context, g prometheus.Gatherer) error {
	pu := push.New(p.url, p.job).Gatherer(g)
	if p.client != nil {
		pu = pu.Client(p.client)
	}
	if err := pu.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", p.url, err)
	}
	return nil
}
