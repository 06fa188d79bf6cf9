package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/vulkan-go/glfw/v3.3/glfw"

	"kube/settings"
	"kube/vkw"
)

func init() {
	// GLFW/Vulkan require the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		validation bool
		trace      bool
	)
	cmd := &cobra.Command{
		Use:          "kube",
		Short:        "Open a Vulkan window and clear it every frame",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnv()
			if cmd.Flags().Changed("validation") {
				cfg.Validation = validation
			}
			vkw.SetTrace(trace)
			return run(cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "settings.toml", "settings file (.toml, .json, .yaml)")
	cmd.Flags().BoolVar(&validation, "validation", true, "enable the Khronos validation layer")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every native object destruction")
	return cmd
}

func run(cfg settings.Settings) error {
	ctx, err := vkw.NewContext()
	if err != nil {
		return err
	}
	defer ctx.Close()

	title := fmt.Sprintf("%s %s", cfg.General.AppName, cfg.General.AppVersion)
	window, err := vkw.NewWindow(ctx, vkw.WindowConfig{
		Width:     int(cfg.Graphics.ScreenWidth),
		Height:    int(cfg.Graphics.ScreenHeight),
		Title:     title,
		Resizable: true,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	// Ensure the framebuffer has a non-zero size before initializing Vulkan.
	vkw.WaitWhileMinimized(window)

	win := window.MustRef()

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	app, err := newVulkanApp(cfg, window)
	if err != nil {
		return fmt.Errorf("init vulkan: %w", err)
	}
	defer app.Cleanup()

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width int, height int) {
		app.requestSwapchainRecreate()
	})

	log.Printf("Entering main loop (validation=%t, present mode %s, CPU usage %s)",
		cfg.Validation, cfg.Graphics.PresentMode, cfg.System.CPUThreadUsage)

	for !win.ShouldClose() {
		glfw.PollEvents()
		if err := app.DrawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}
		time.Sleep(1 * time.Millisecond) // small throttle to avoid busy loop
	}
	return nil
}
