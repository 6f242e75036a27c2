package ops

import (
	"context"

	"vidtools/internal/media/ffprobe"
	"vidtools/internal/services"
)

// Info inspects input with ffprobe.
func Info(ctx context.Context, env Env, input string) (ffprobe.Result, error) {
	if err := checkInput(OpInfo, input); err != nil {
		return ffprobe.Result{}, err
	}
	if env.Prober == nil {
		return ffprobe.Result{}, services.Wrap(services.ErrConfiguration, OpInfo, "", "no ffprobe configured", nil)
	}
	result, err := env.Prober.Inspect(ctx, input)
	if err != nil {
		return ffprobe.Result{}, services.Wrap(services.ErrExternalTool, OpInfo, "ffprobe", "", err)
	}
	return result, nil
}
