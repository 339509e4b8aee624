package config

import (
	"embed"

	"github.com/gogpu/hwc/plane"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

func init() {
	for _, name := range []string{"rk356x", "rk3588"} {
		Register(name, builtin(name))
	}
}

func builtin(name string) TableFactory {
	return func() (*plane.Table, error) {
		data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
		if err != nil {
			return nil, err
		}
		return ParseTable(data)
	}
}
