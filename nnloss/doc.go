// Package nnloss is a thin layer over autodiff providing the common scalar
// loss shapes (squared error, Huber) as graph-building helpers, so a
// caller fitting a model doesn't hand-write the residual graph for a
// loss function every time. SquaredErrorResiduals returns per-sample
// residual nodes, the shape a fnset.ResidualBuilder returns; HuberLoss
// returns one scalar loss node.
package nnloss
