// Package carelens embeds a hospital-market dashboard session in a Go
// program.
//
// A Dashboard loads four datasets (county metrics, hospitals, top
// procedures per hospital and county geography), keeps one shared
// selection and filter state, and rebuilds four coordinated view-models
// after every change: a county choropleth, a hospital scatter, a
// procedure-share bar list and a region-group ranking.
//
//	dash, err := carelens.Open(ctx, carelens.WithDataDir("data"))
//	if err != nil {
//	    return err
//	}
//	stop := dash.Subscribe(func(f carelens.Frame) {
//	    render(f.Map, f.Scatter, f.Procedures, f.Ranking)
//	})
//	defer stop()
//
//	dash.SelectCounty("26081")
//	_, _ = dash.SetTopN(5)
//	dash.SetOwnership([]string{"Proprietary"})
package carelens
