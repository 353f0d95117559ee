// Package platform bridges the host platform's app lifecycle into the relay.
//
// Native embedders forward state changes to [Lifecycle]; an app bound with
// views.App.BindPlatform turns them into App family events. When the embedder
// owns a UI thread it registers a dispatcher with [RegisterDispatch] so
// handlers run there.
package platform
