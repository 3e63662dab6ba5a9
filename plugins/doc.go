// Package plugins contains the stock pad plugins: canvas pan/rotate/zoom,
// per-object manipulation, freehand drawing, markdown notes and image
// insertion.
//
// Register them with a [pad.Manager] in this order, which lets objects
// become interactive before the canvas claims body-level gestures:
//
//	m.AddPlugin(plugins.NewCanvasObjectInteraction())
//	m.AddPlugin(plugins.NewCanvasInteraction())
//	m.AddPlugin(plugins.NewCanvasDrawing())
//	m.AddPlugin(plugins.NewImageBox())
//	m.AddPlugin(plugins.NewMarkdownNote(nil))
package plugins
