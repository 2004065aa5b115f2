package server

import (
	"html/template"
	"io"

	"github.com/contactkeval/option-lattice/internal/pricing"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Binomial Option Pricer</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; }
label { display: block; margin-top: 0.8em; }
input { width: 12em; }
.error { color: #b00020; margin-top: 1em; }
</style>
</head>
<body>
<h1>Binomial Option Pricer</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="POST" action="/price">
  <label>Current Asset Price <input name="current_price" value="{{.Req.CurrentPrice}}"></label>
  <label>Strike Price <input name="strike" value="{{.Req.Strike}}"></label>
  <label>Time to Maturity (Years) <input name="time_to_maturity" value="{{.Req.TimeToMaturity}}"></label>
  <label>Volatility <input name="volatility" value="{{.Req.Volatility}}"></label>
  <label>Risk-Free Interest Rate <input name="interest_rate" value="{{.Req.InterestRate}}"></label>
  <label>Number of Steps <input name="steps" value="{{.Req.Steps}}"></label>
  <label>Ticker (optional, fills spot/vol) <input name="ticker" value=""></label>
  <button type="submit">Calculate</button>
</form>
</body>
</html>
`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Binomial Option Pricer</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; }
table { border-collapse: collapse; margin-top: 1em; }
td, th { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: right; }
.call { background: #90ee90; }
.put { background: #ffcccb; }
.value { font-size: 1.4em; font-weight: bold; padding: 0.6em 1.2em; border-radius: 8px; display: inline-block; margin-right: 1em; }
</style>
</head>
<body>
<h1>Binomial Option Pricer</h1>
<table>
  <tr><th>Current Price</th><th>Strike</th><th>Maturity (y)</th><th>Volatility</th><th>Rate</th><th>Steps</th></tr>
  <tr>
    <td>{{printf "%.2f" .Req.CurrentPrice}}</td>
    <td>{{printf "%.2f" .Req.Strike}}</td>
    <td>{{printf "%.2f" .Req.TimeToMaturity}}</td>
    <td>{{printf "%.4f" .Req.Volatility}}</td>
    <td>{{printf "%.4f" .Req.InterestRate}}</td>
    <td>{{.Req.Steps}}</td>
  </tr>
</table>
<p>
  <span class="value call">CALL ${{printf "%.2f" .Res.CallPrice}}</span>
  <span class="value put">PUT ${{printf "%.2f" .Res.PutPrice}}</span>
</p>
<table>
  <tr><th></th><th>Delta</th><th>Gamma</th></tr>
  <tr><th>Call</th><td>{{printf "%.4f" .Res.CallDelta}}</td><td>{{printf "%.4f" .Res.CallGamma}}</td></tr>
  <tr><th>Put</th><td>{{printf "%.4f" .Res.PutDelta}}</td><td>{{printf "%.4f" .Res.PutGamma}}</td></tr>
</table>
<p><a href="/">Back</a></p>
</body>
</html>
`))

func renderIndex(w io.Writer, req pricing.Request, errMsg string) {
	_ = indexTmpl.Execute(w, struct {
		Req   pricing.Request
		Error string
	}{Req: req, Error: errMsg})
}

func renderResult(w io.Writer, req pricing.Request, res *pricing.Result) {
	_ = resultTmpl.Execute(w, struct {
		Req pricing.Request
		Res *pricing.Result
	}{Req: req, Res: res})
}
