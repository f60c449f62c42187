package main

import (
	"log"
	"math"
	"os"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/xsec"
)

// Plots a tabulated cross section along with the corresponding pair reaction
// rate sigma*v over a log-spaced energy grid. Useful for eyeballing a new
// cross-section file before wiring it into a config.
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Usage: plot_xsec <cross-section file>")
	}

	t, err := xsec.Read(os.Args[1])
	if err != nil {
		log.Fatalf(err.Error())
	}

	n := 200
	eMin, eMax := 1e2*phys.EV, 1e7*phys.EV
	logMin, logMax := math.Log10(eMin), math.Log10(eMax)

	es := make([]float64, n)
	sigmas := make([]float64, n)
	rates := make([]float64, n)
	for i := range es {
		e := math.Pow(10, logMin+(logMax-logMin)*float64(i)/float64(n-1))
		// Non-relativistic speed of a reduced-mass proton pair at energy e;
		// good enough for an eyeball plot.
		v := math.Sqrt(2 * e / phys.MProton)
		es[i] = e / phys.EV
		sigmas[i] = t.Eval(e)
		rates[i] = sigmas[i] * v
	}

	plt.Reset()
	plt.Plot(es, sigmas, "b", plt.LW(2))
	plt.XScale("log")
	plt.YScale("log")
	plt.XLabel("$E$ [eV]")
	plt.YLabel("$\\sigma$ [m$^2$]")

	plt.Figure()
	plt.Plot(es, rates, "r", plt.LW(2))
	plt.XScale("log")
	plt.YScale("log")
	plt.XLabel("$E$ [eV]")
	plt.YLabel("$\\sigma v$ [m$^3$/s]")

	plt.Show()
}
