// Package riskreport computes an ad-hoc risk report from daily price series.
//
// The pipeline is strictly linear:
//   - Normalization: a raw, source-specific price payload (RawPrices) is turned
//     into a Table with one adjusted-close column per ticker.
//   - Risk metrics: annualized volatility, naive Sharpe ratio, maximum drawdown
//     and pairwise correlation per ticker.
//   - Portfolio: per-asset returns are combined into a single return Series
//     under a weighting scheme (equal weight by default).
//   - Tail risk: historical-simulation Value-at-Risk and Expected Shortfall,
//     uniform stress shocks, and the worst days of the portfolio.
//
// Every value is computed fresh from the prices given and never mutated
// afterwards. Numeric degeneracies (one observation, zero variance, empty
// tail) yield NaN instead of an error: a blank cell in a report is better
// than no report at all.
//
// Fetching prices, news, filings, and summaries is done by the sibling
// packages (yahoo, eodhd, news, summarizer, ...). This package performs no I/O.
package riskreport
