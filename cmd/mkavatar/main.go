// Command mkavatar writes the bundled avatar GLB.
package main

import (
	"flag"
	"os"

	"github.com/automoto/avatarview/internal/avatar"
	"go.uber.org/zap"
)

func main() {
	out := flag.String("o", "avatar.glb", "output file")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	b, err := avatar.Build()
	if err != nil {
		logger.Fatal("build avatar", zap.Error(err))
	}
	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("create output", zap.Error(err))
	}
	if err := b.Encode(f); err != nil {
		f.Close()
		logger.Fatal("encode avatar", zap.Error(err))
	}
	if err := f.Close(); err != nil {
		logger.Fatal("close output", zap.Error(err))
	}
	logger.Info("avatar written", zap.String("path", *out))
}
