package contracts

// ERC20 subset used by the app: balances, allowances and decimals.
const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

// transfer is kept out of the registered token ABI; it is only packed for
// bridge deposits.
const erc20TransferABIJSON = `[
	{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// Swap pool holding ETH, USDC and PYUSD. ETH is addressed as the zero address
// in getQuote.
const swapABIJSON = `[
	{"inputs":[],"name":"swapETHForUSDC","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"swapETHForPYUSD","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"}],"name":"swapUSDCForETH","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"}],"name":"swapPYUSDForETH","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"}],"name":"swapUSDCForPYUSD","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"}],"name":"swapPYUSDForUSDC","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"usdcAmount","type":"uint256"},{"name":"pyusdAmount","type":"uint256"}],"name":"addLiquidity","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"ethAmount","type":"uint256"},{"name":"usdcAmount","type":"uint256"},{"name":"pyusdAmount","type":"uint256"}],"name":"removeLiquidity","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"getETHBalance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getUSDCBalance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getPYUSDBalance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"}],"name":"getQuote","outputs":[{"name":"amountOut","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"user","type":"address"},{"indexed":false,"name":"tokenIn","type":"address"},{"indexed":false,"name":"tokenOut","type":"address"},{"indexed":false,"name":"amountIn","type":"uint256"},{"indexed":false,"name":"amountOut","type":"uint256"}],"name":"Swapped","type":"event"}
]`
