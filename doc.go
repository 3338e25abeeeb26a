// Package drawpool batches 2D draw requests into as few painter state
// changes and geometry submissions as possible, and skips redrawing
// layers whose content did not change.
//
// # Overview
//
// A DrawPool owns one pool.Pool per layer (map, creature information,
// light, text, foreground). Every frame the renderer selects a layer with
// Use, adds draws to it, and finally calls Draw:
//
//	dp := drawpool.New(drawpool.WithFrameBufferSize(image.Pt(800, 600)))
//
//	dp.UseFramed(pool.TypeMap, screenRect, image.Rectangle{})
//	dp.AddTexturedRect(tileRect, tileTexture, image.Rectangle{}, white)
//
//	dp.Use(pool.TypeText)
//	dp.AddGlyphRun(layout.Run("Hello", face, atlas, pos), atlas, yellow)
//
//	dp.Draw(screen)
//
// # Change detection
//
// Each add folds a hash of the painter state and of the draw method into
// the pool's status. The map, light and foreground layers paint into a
// frame buffer that is only repainted when that status differs from the
// previous frame's, when a repaint is forced, or when a bound shader
// requires periodic refreshes.
//
// # Buffer reuse
//
// Grouped pools cache the generated geometry of each state in a
// pool.Buffer. As long as the same draws arrive in the same order the
// geometry is reused as is; the first divergence regenerates it.
//
// # Painters
//
// Draw accepts any painter.Painter. painter.Software rasterizes on the
// CPU; gpu.Painter uploads the geometry to wgpu HAL vertex buffers.
package drawpool
