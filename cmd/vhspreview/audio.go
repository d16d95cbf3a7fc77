package main

import (
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cwbudde/algo-vhs/internal/host"
)

type player struct {
	p *audio.Player
}

func newPlayer(sampleRate int, src host.MonoSource) (*player, error) {
	ctx := audio.NewContext(sampleRate)
	p, err := ctx.NewPlayerF32(host.NewStereoReader(src))
	if err != nil {
		return nil, err
	}
	return &player{p: p}, nil
}

func (p *player) Play() { p.p.Play() }

func (p *player) Close() error {
	p.p.Pause()
	return p.p.Close()
}
